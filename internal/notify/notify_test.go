package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
	"github.com/diegoclair/shift-board/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConsole_Notify(t *testing.T) {
	tests := []struct {
		name string
		n    entity.Notification
		want string
	}{
		{name: "success", n: entity.Notification{Level: entity.LevelSuccess, Title: "Shift moved", Message: "Prep moved to Sat 04 Oct 15:00"}, want: "✔ Shift moved: Prep moved to Sat 04 Oct 15:00\n"},
		{name: "error", n: entity.Notification{Level: entity.LevelError, Title: "Failed to move shift", Message: "Shift is locked"}, want: "✖ Failed to move shift: Shift is locked\n"},
		{name: "info without message", n: entity.Notification{Level: entity.LevelInfo, Title: "Move cancelled"}, want: "• Move cancelled\n"},
		{name: "unknown level", n: entity.Notification{Level: "debug", Title: "x"}, want: "• x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			NewConsole(&buf).Notify(context.Background(), tt.n)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSlack_Notify(t *testing.T) {
	tests := []struct {
		name      string
		buildMock func(client *mocks.MockSlackClient)
	}{
		{
			name: "Should post to the channel",
			buildMock: func(client *mocks.MockSlackClient) {
				client.EXPECT().
					PostMessageContext(gomock.Any(), "C123", gomock.Any(), gomock.Any()).
					Return("C123", "1700000000.000100", nil).Times(1)
			},
		},
		{
			name: "Should swallow posting errors",
			buildMock: func(client *mocks.MockSlackClient) {
				client.EXPECT().
					PostMessageContext(gomock.Any(), "C123", gomock.Any(), gomock.Any()).
					Return("", "", errors.New("channel_not_found")).Times(1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockSlackClient(ctrl)
			tt.buildMock(client)

			NewSlack(client, "C123").Notify(context.Background(), entity.Notification{Level: entity.LevelSuccess, Title: "Shift moved"})
		})
	}
}

func TestFormatSlack(t *testing.T) {
	assert.Equal(t, ":white_check_mark: *Shift moved*\nPrep moved to Sat 04 Oct 15:00",
		formatSlack(entity.Notification{Level: entity.LevelSuccess, Title: "Shift moved", Message: "Prep moved to Sat 04 Oct 15:00"}))
	assert.Equal(t, ":x: *Failed to load shifts*",
		formatSlack(entity.Notification{Level: entity.LevelError, Title: "Failed to load shifts"}))
}

func TestMulti_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockNotifier(ctrl)
	second := mocks.NewMockNotifier(ctrl)
	n := entity.Notification{Level: entity.LevelInfo, Title: "hello"}

	gomock.InOrder(
		first.EXPECT().Notify(gomock.Any(), n),
		second.EXPECT().Notify(gomock.Any(), n),
	)

	Multi([]contract.Notifier{first, nil, second}).Notify(context.Background(), n)
}
