package statemachine

import (
	"fmt"
	"strings"

	"restaurant-api/models"
)

// Transition is one step of the kitchen workflow the dashboard suggests.
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// workflow is the usual path of an order. The admin may still move an
// order to any status; these are only the suggested next steps.
var workflow = []Transition{
	{From: models.StatusPending, To: models.StatusConfirmed},
	{From: models.StatusPending, To: models.StatusCancelled},
	{From: models.StatusConfirmed, To: models.StatusPreparing},
	{From: models.StatusConfirmed, To: models.StatusCancelled},
	{From: models.StatusPreparing, To: models.StatusReady},
	{From: models.StatusPreparing, To: models.StatusCancelled},
	{From: models.StatusReady, To: models.StatusDelivered},
}

// Suggested returns the workflow steps out of a status. Terminal statuses
// have none.
func Suggested(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range workflow {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// ValidTransitionsFrom returns every status an order may be moved to.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	nexts := make([]models.OrderStatus, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		if s != status {
			nexts = append(nexts, s)
		}
	}
	return nexts
}

// CanTransition accepts any known target status, including moving backwards
// or out of a terminal status.
func CanTransition(from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q (valid statuses are: %s)", models.ErrInvalidStatus, to, join(models.AllStatuses))
	}
	return nil
}

// StatusInfo describes one status for the dashboard.
type StatusInfo struct {
	Value     models.OrderStatus   `json:"value"`
	Label     string               `json:"label"`
	Terminal  bool                 `json:"terminal"`
	Suggested []models.OrderStatus `json:"suggested"`
}

func Describe(status models.OrderStatus) StatusInfo {
	next := Suggested(status)
	if next == nil {
		next = []models.OrderStatus{}
	}
	return StatusInfo{
		Value:     status,
		Label:     status.Label(),
		Terminal:  !status.InProgress(),
		Suggested: next,
	}
}

func DescribeAll() []StatusInfo {
	out := make([]StatusInfo, len(models.AllStatuses))
	for i, s := range models.AllStatuses {
		out[i] = Describe(s)
	}
	return out
}

// GetAllTransitions returns the suggested workflow for documentation.
func GetAllTransitions() []Transition {
	return append([]Transition(nil), workflow...)
}

func join(statuses []models.OrderStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
