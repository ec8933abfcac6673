package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/waypoint/internal/domain"
)

// mutation is a user-triggered change to the point store.
// The set of implementations is closed: add, update, delete.
type mutation interface {
	target() domain.Point
	verb() string
}

type addPointMutation struct {
	point domain.Point
}

type updatePointMutation struct {
	point domain.Point
}

type deletePointMutation struct {
	point domain.Point
}

func (m addPointMutation) target() domain.Point { return m.point }
func (m updatePointMutation) target() domain.Point { return m.point }
func (m deletePointMutation) target() domain.Point { return m.point }

func (addPointMutation) verb() string { return "create" }
func (updatePointMutation) verb() string { return "update" }
func (deletePointMutation) verb() string { return "delete" }

// mutationRequestMsg asks the board to dispatch a mutation.
type mutationRequestMsg struct {
	mutation mutation
}

// mutationResultMsg reports a finished store call.
type mutationResultMsg struct {
	mutation mutation
	point    domain.Point
	err      error
}

// requestMutation wraps a mutation into a command the board will receive.
func requestMutation(mut mutation) tea.Cmd {
	return func() tea.Msg {
		return mutationRequestMsg{mutation: mut}
	}
}

// pendingChange is the optimistic overlay for a point whose mutation is in flight.
type pendingChange struct {
	point   domain.Point
	deleted bool
}

// executeMutation is the single place that maps a mutation onto a store call.
func executeMutation(store PointStore, mut mutation) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		switch mut := mut.(type) {
		case addPointMutation:
			point, err := store.AddPoint(ctx, mut.point)
			return mutationResultMsg{mutation: mut, point: point, err: err}
		case updatePointMutation:
			point, err := store.UpdatePoint(ctx, mut.point)
			return mutationResultMsg{mutation: mut, point: point, err: err}
		case deletePointMutation:
			err := store.DeletePoint(ctx, mut.point.ID)
			return mutationResultMsg{mutation: mut, point: mut.point, err: err}
		default:
			return nil
		}
	}
}

// applyPending overlays in-flight changes onto store points.
func applyPending(points []domain.Point, pending map[string]pendingChange) []domain.Point {
	if len(pending) == 0 {
		return points
	}
	out := make([]domain.Point, 0, len(points))
	for _, p := range points {
		change, ok := pending[p.ID]
		switch {
		case !ok:
			out = append(out, p)
		case change.deleted:
		default:
			out = append(out, change.point)
		}
	}
	return out
}
