package service

import (
	"context"
	"log"

	"github.com/diegoclair/shift-board/internal/domain/contract"
	"github.com/diegoclair/shift-board/internal/domain/entity"
)

// saveSnapshot keeps the last loaded copy of a week for offline viewing.
func (b *Board) saveSnapshot(snapshot entity.WeekSnapshot) {
	if b.dm == nil {
		return
	}
	if err := b.dm.Snapshot().Save(&snapshot); err != nil {
		log.Printf("Failed to save snapshot of week %s: %v", snapshot.WeekStart, err)
	}
}

// recordMove stores a committed move together with the updated week.
func (b *Board) recordMove(ctx context.Context, move entity.MoveRecord, snapshot entity.WeekSnapshot) {
	if b.dm == nil {
		return
	}
	err := b.dm.WithTransaction(ctx, func(dm contract.DataManager) error {
		if err := dm.Move().Create(&move); err != nil {
			return err
		}
		return dm.Snapshot().Save(&snapshot)
	})
	if err != nil {
		log.Printf("Failed to record move of shift %d: %v", move.ShiftID, err)
	}
}
