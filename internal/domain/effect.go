package domain

import (
	"fmt"
	"strconv"
)

// EffectKind selects which vision endpoint handles an effect
type EffectKind string

const (
	KindExpression EffectKind = "expression"
	KindAge        EffectKind = "age"
)

// Age action tags understood by the age endpoint
const (
	AgeActionToOld = "TO_OLD"
)

// DefaultAgeLabel is used when a client does not pick an age effect
const DefaultAgeLabel = "Transform to older"

// Effect is one entry of the static effect catalog
type Effect struct {
	Label  string     `json:"label"`
	Kind   EffectKind `json:"kind"`
	Code   int        `json:"code"`
	Action string     `json:"action,omitempty"`
}

// Param renders the form value sent to the vision service
func (e Effect) Param() string {
	if e.Kind == KindAge {
		return e.Action
	}
	return strconv.Itoa(e.Code)
}

var (
	expressionEffects = []Effect{
		{Label: "Big laugh", Kind: KindExpression, Code: 0},
		{Label: "Pouting", Kind: KindExpression, Code: 1},
		{Label: "Feel sad", Kind: KindExpression, Code: 2},
		{Label: "Smile", Kind: KindExpression, Code: 3},
		{Label: "Dimple Smile", Kind: KindExpression, Code: 10},
		{Label: "Pear Dimple Smile", Kind: KindExpression, Code: 11},
		{Label: "Big Grin", Kind: KindExpression, Code: 12},
		{Label: "Standard Grin", Kind: KindExpression, Code: 13},
		{Label: "Cool Pose", Kind: KindExpression, Code: 14},
		{Label: "Sad", Kind: KindExpression, Code: 15},
		{Label: "Forced Smile", Kind: KindExpression, Code: 16},
		{Label: "Opening eyes", Kind: KindExpression, Code: 100},
	}

	ageEffects = []Effect{
		{Label: DefaultAgeLabel, Kind: KindAge, Action: AgeActionToOld},
	}

	effectsByLabel = indexEffects(expressionEffects, ageEffects)
)

func indexEffects(groups ...[]Effect) map[EffectKind]map[string]Effect {
	idx := make(map[EffectKind]map[string]Effect)
	for _, group := range groups {
		for _, e := range group {
			if idx[e.Kind] == nil {
				idx[e.Kind] = make(map[string]Effect)
			}
			idx[e.Kind][e.Label] = e
		}
	}
	return idx
}

// ExpressionEffects returns the expression catalog in display order
func ExpressionEffects() []Effect {
	return append([]Effect(nil), expressionEffects...)
}

// AgeEffects returns the age catalog in display order
func AgeEffects() []Effect {
	return append([]Effect(nil), ageEffects...)
}

// ResolveExpression maps a user-facing label to its expression effect
func ResolveExpression(label string) (Effect, error) {
	return resolve(KindExpression, label)
}

// ResolveAge maps a user-facing label to its age effect
func ResolveAge(label string) (Effect, error) {
	return resolve(KindAge, label)
}

// Resolve looks up a label within the catalog of the given kind
func Resolve(kind EffectKind, label string) (Effect, error) {
	return resolve(kind, label)
}

func resolve(kind EffectKind, label string) (Effect, error) {
	effects, ok := effectsByLabel[kind]
	if !ok {
		return Effect{}, ErrInvalidSelection.WithError(fmt.Errorf("unknown effect kind %q", kind))
	}
	e, ok := effects[label]
	if !ok {
		return Effect{}, ErrInvalidSelection.WithError(fmt.Errorf("%s effect %q is not in the catalog", kind, label))
	}
	return e, nil
}
