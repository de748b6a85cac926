package statemachine

import (
	"fmt"
	"strings"

	"tiffin-api/models"
)

// Transition defines a canonical state change and who normally performs it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

// canonicalTransitions is the intended order lifecycle. The order service
// does not reject transitions outside this table; it only reports them.
var canonicalTransitions = []Transition{
	// Admin confirms a placed order (payment verification does the same)
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RoleAdmin},
	// A delivery partner claims a confirmed order
	{From: models.StatusConfirmed, To: models.StatusOutForDelivery, Actor: models.RoleDeliveryPartner},
	// The partner hands it over
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleDeliveryPartner},
	// Customer or admin can cancel before dispatch
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleAdmin},
}

var knownStatuses = map[models.OrderStatus]bool{
	models.StatusPending:        true,
	models.StatusConfirmed:      true,
	models.StatusOutForDelivery: true,
	models.StatusDelivered:      true,
	models.StatusCancelled:      true,
}

// TerminalStatuses have no outgoing canonical transition.
var TerminalStatuses = []models.OrderStatus{models.StatusDelivered, models.StatusCancelled}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range canonicalTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsKnown reports whether status is part of the lifecycle.
func IsKnown(status models.OrderStatus) bool {
	return knownStatuses[status]
}

// IsTerminal reports whether status ends the lifecycle.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all canonical next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range canonicalTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether actor moving from one state to another follows
// the canonical lifecycle. A nil error means the move is canonical.
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("non-canonical transition: %s -> %s by %s; canonical next states from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full lifecycle for documentation
func GetAllTransitions() []Transition {
	return canonicalTransitions
}
