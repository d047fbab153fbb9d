package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/inventrack/console/internal/state"
	pkgerrors "github.com/inventrack/console/pkg/errors"
)

// Store caches alerts in three views (all, active, resolved) plus the
// alert rules. The split views exist because the alert screen shows
// active and resolved lists side by side while the dashboard reads the
// unfiltered list.
type Store struct {
	api         *API
	all         *state.Collection[Alert]
	active      *state.Collection[Alert]
	resolvedSet *state.Collection[Alert]
	rules       *state.Collection[Rule]
	currentRule *state.Focus[Rule]
	now         func() time.Time
}

func NewStore(api *API) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("alerts api required")
	}
	alertID := func(a Alert) string { return a.ID }
	return &Store{
		api:         api,
		all:         state.NewCollection(alertID),
		active:      state.NewCollection(alertID),
		resolvedSet: state.NewCollection(alertID),
		rules:       state.NewCollection(func(r Rule) string { return r.ID }),
		currentRule: state.NewFocus[Rule](),
		now:         time.Now,
	}, nil
}

// Load fetches alerts by resolution state. A nil filter loads everything
// and rebuilds the split views from the full result; a scoped filter
// replaces only the matching view.
func (s *Store) Load(ctx context.Context, filter Filter) error {
	target := s.all
	if filter.Resolved != nil {
		if *filter.Resolved {
			target = s.resolvedSet
		} else {
			target = s.active
		}
	}
	seq := target.BeginLoad()
	items, err := s.api.List(ctx, filter)
	if err != nil {
		target.CompleteLoad(seq, nil, pkgerrors.UserMessage(err, "could not load alerts"))
		return err
	}
	// Rebuild the split views only when this load actually applied; a
	// fenced-out stale response must not touch them either.
	if target.CompleteLoad(seq, items, "") && filter.Resolved == nil {
		s.rebuildViews(items)
	}
	return nil
}

func (s *Store) rebuildViews(items []Alert) {
	active := make([]Alert, 0, len(items))
	resolved := make([]Alert, 0, len(items))
	for _, a := range items {
		switch a.Status {
		case StatusResolved:
			resolved = append(resolved, a)
		default:
			active = append(active, a)
		}
	}
	seq := s.active.BeginLoad()
	s.active.CompleteLoad(seq, active, "")
	seq = s.resolvedSet.BeginLoad()
	s.resolvedSet.CompleteLoad(seq, resolved, "")
}

// Resolve marks an alert resolved server-side, then performs the local
// split-merge: out of the active view, stamped RESOLVED, into the
// resolved view exactly once. The server's resolution timestamp is used
// when its response carries one; otherwise the moment of local
// confirmation stands.
func (s *Store) Resolve(ctx context.Context, id string) (*Alert, error) {
	s.all.BeginMutation()
	fromServer, err := s.api.Resolve(ctx, id)
	if err != nil {
		s.all.CompleteMutation(pkgerrors.UserMessage(err, "could not resolve alert"))
		return nil, err
	}
	s.all.CompleteMutation("")

	alert, ok := s.resolutionSource(id, fromServer)
	if !ok {
		// Confirmed server-side but never fetched locally; nothing to patch.
		return fromServer, nil
	}
	alert.Status = StatusResolved
	if alert.ResolvedAt == nil {
		stamped := s.now()
		alert.ResolvedAt = &stamped
	}
	s.active.ApplyRemove(id)
	s.all.ApplyUpdate(alert)
	if !s.resolvedSet.Contains(id) {
		s.resolvedSet.ApplyCreate(alert)
	}
	return &alert, nil
}

func (s *Store) resolutionSource(id string, fromServer *Alert) (Alert, bool) {
	if fromServer != nil && fromServer.ID == id {
		return *fromServer, true
	}
	if a, ok := s.active.Find(id); ok {
		return a, true
	}
	if a, ok := s.all.Find(id); ok {
		return a, true
	}
	return Alert{}, false
}

// Stats fetches the server-side alert aggregate.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	return s.api.Stats(ctx)
}

// LoadRules replaces the rule collection.
func (s *Store) LoadRules(ctx context.Context) error {
	return state.Load(ctx, s.rules, "could not load alert rules", func(ctx context.Context) ([]Rule, error) {
		return s.api.ListRules(ctx)
	})
}

func (s *Store) LoadRule(ctx context.Context, id string) error {
	return state.LoadOne(ctx, s.currentRule, "could not load alert rule", func(ctx context.Context) (*Rule, error) {
		return s.api.GetRule(ctx, id)
	})
}

func (s *Store) CreateRule(ctx context.Context, input CreateRuleInput) (*Rule, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.rules.BeginMutation()
	created, err := s.api.CreateRule(ctx, input)
	if err != nil {
		s.rules.CompleteMutation(pkgerrors.UserMessage(err, "could not create alert rule"))
		return nil, err
	}
	s.rules.CompleteMutation("")
	s.rules.ApplyCreate(*created)
	return created, nil
}

func (s *Store) UpdateRule(ctx context.Context, id string, input UpdateRuleInput) (*Rule, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	s.rules.BeginMutation()
	updated, err := s.api.UpdateRule(ctx, id, input)
	if err != nil {
		s.rules.CompleteMutation(pkgerrors.UserMessage(err, "could not update alert rule"))
		return nil, err
	}
	s.rules.CompleteMutation("")
	s.rules.ApplyUpdate(*updated)
	s.currentRule.Set(updated)
	return updated, nil
}

func (s *Store) RemoveRule(ctx context.Context, id string) error {
	s.rules.BeginMutation()
	if err := s.api.DeleteRule(ctx, id); err != nil {
		s.rules.CompleteMutation(pkgerrors.UserMessage(err, "could not delete alert rule"))
		return err
	}
	s.rules.CompleteMutation("")
	s.rules.ApplyRemove(id)
	return nil
}

func (s *Store) Items() []Alert    { return s.all.Items() }
func (s *Store) Active() []Alert   { return s.active.Items() }
func (s *Store) Resolved() []Alert { return s.resolvedSet.Items() }
func (s *Store) Rules() []Rule     { return s.rules.Items() }
func (s *Store) CurrentRule() *Rule {
	return s.currentRule.Value()
}
func (s *Store) Loading() bool { return s.all.Loading() || s.rules.Loading() }
func (s *Store) Err() string {
	if msg := s.all.Err(); msg != "" {
		return msg
	}
	return s.rules.Err()
}
