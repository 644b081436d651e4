package entity

import (
	"context"
	"errors"
)

var ErrInsufficientPoints = errors.New("insufficient points balance")

type PointsRepositoryInterface interface {
	Balance(ctx context.Context, userID string) (int, error)
	// Adjust applies delta and returns the new balance. It fails with
	// ErrInsufficientPoints instead of going negative.
	Adjust(ctx context.Context, userID string, delta int, reason string) (int, error)
}
