package reducer

import (
	"maps"
	"slices"

	"github.com/cleared-dev/tally/internal/model"
)

// AddGoal appends a goal with a fresh id.
type AddGoal struct {
	Fields map[string]any
}

func (AddGoal) Kind() string { return "addGoal" }

func (a AddGoal) Apply(s model.State, env Env) (model.State, error) {
	fields := maps.Clone(a.Fields)
	delete(fields, "id")
	out := s.Clone()
	out.Goals = append(out.Goals, model.Goal{ID: env.newID(), Fields: fields})
	return out, nil
}

// UpdateGoal merges fields into a goal.
type UpdateGoal struct {
	ID     model.ID
	Fields map[string]any
}

func (UpdateGoal) Kind() string { return "updateGoal" }

func (a UpdateGoal) Apply(s model.State, _ Env) (model.State, error) {
	i := findGoal(s, a.ID)
	if i < 0 {
		return s, ReferenceError{Kind: "goal", ID: string(a.ID)}
	}
	out := s.Clone()
	if out.Goals[i].Fields == nil {
		out.Goals[i].Fields = make(map[string]any, len(a.Fields))
	}
	maps.Copy(out.Goals[i].Fields, a.Fields)
	delete(out.Goals[i].Fields, "id")
	return out, nil
}

// DeleteGoal removes a goal.
type DeleteGoal struct {
	ID model.ID
}

func (DeleteGoal) Kind() string { return "deleteGoal" }

func (a DeleteGoal) Apply(s model.State, _ Env) (model.State, error) {
	if findGoal(s, a.ID) < 0 {
		return s, ReferenceError{Kind: "goal", ID: string(a.ID)}
	}
	out := s.Clone()
	out.Goals = slices.DeleteFunc(out.Goals, func(g model.Goal) bool { return g.ID == a.ID })
	return out, nil
}

func findGoal(s model.State, gID model.ID) int {
	return slices.IndexFunc(s.Goals, func(g model.Goal) bool { return g.ID == gID })
}
