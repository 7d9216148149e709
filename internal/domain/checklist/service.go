package checklist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
	"github.com/yanqian/critter-checklist/pkg/metrics"
)

// Service is the boundary a UI talks to. Every mutation is persisted before
// it returns; callers re-request views afterwards.
type Service interface {
	Snapshot(ctx context.Context) (State, error)
	List(ctx context.Context, category catalog.Category) (ListView, error)
	Availability(ctx context.Context, category catalog.Category, id string) (bool, error)
	SetMark(ctx context.Context, id string, caught bool) (Mark, error)
	BulkMark(ctx context.Context, category catalog.Category, caught bool) (int, error)
	UpdateFilter(ctx context.Context, category catalog.Category, patch FilterPatch) (Filter, error)
	UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error)
	SetTab(ctx context.Context, category catalog.Category) error
}

// DatasetLoader provides a category's items.
type DatasetLoader interface {
	Load(ctx context.Context, category catalog.Category) ([]catalog.Item, error)
}

// Config holds runtime knobs for the checklist service.
type Config struct {
	DefaultHemisphere catalog.Hemisphere
	SuggestionLimit   int
}

type service struct {
	cfg    Config
	loader DatasetLoader
	repo   *Repository
	logger *slog.Logger
	now    func() time.Time

	dataMu   sync.Mutex
	datasets map[catalog.Category][]catalog.Item

	mu     sync.Mutex
	state  State
	loaded bool
	seeded bool
}

// NewService wires the checklist domain.
func NewService(cfg Config, loader DatasetLoader, repo *Repository, logger *slog.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		cfg:      cfg,
		loader:   loader,
		repo:     repo,
		logger:   logger.With("component", "checklist.service"),
		now:      now,
		datasets: make(map[catalog.Category][]catalog.Item),
	}
}

func (s *service) Snapshot(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	return s.state.Clone(), nil
}

func (s *service) List(ctx context.Context, category catalog.Category) (ListView, error) {
	items, err := s.items(ctx, category)
	if err != nil {
		return ListView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	st := s.state
	wall := s.now()
	filter := st.Filters.For(category)

	filtered := ApplyFilters(category, items, filter, st.Marks, st.Settings.Hemisphere)
	arranged := Arrange(filtered, st.Settings, wall)

	view := ListView{
		Category:         category,
		Count:            len(arranged),
		Progress:         progressOf(items, st.Marks),
		ShowAvailability: st.Settings.ShowNowUI,
		Now:              buildNowView(st.Settings, wall),
		Settings:         st.Settings,
		Filter:           filter,
		Rows:             make([]Row, 0, len(arranged)),
	}
	view.Percent = view.Progress.Percent()
	for _, it := range arranged {
		view.Rows = append(view.Rows, buildRow(category, it, st, wall))
	}
	if category.HasPlace() {
		places := make([]string, 0, len(items))
		for _, it := range items {
			places = append(places, it.Place)
		}
		view.PlaceOptions = catalog.SortedOptions(places)
	}
	if category.HasShadow() {
		view.ShadowOptions = shadowOptionNames()
	}
	if len(arranged) == 0 && filter.Name != "" {
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.Name)
		}
		view.Suggestions = catalog.Suggest(filter.Name, names, s.cfg.SuggestionLimit)
	}
	return view, nil
}

func (s *service) Availability(ctx context.Context, category catalog.Category, id string) (bool, error) {
	items, err := s.items(ctx, category)
	if err != nil {
		return false, err
	}
	it, ok := findItem(items, id)
	if !ok {
		return false, apperrors.Wrap(apperrors.CodeNotFound, "item "+id+" not found in "+string(category), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	return IsCatchable(it, s.state.Settings, s.now()), nil
}

func (s *service) SetMark(ctx context.Context, id string, caught bool) (Mark, error) {
	if err := s.ensureDatasets(ctx); err != nil {
		return Mark{}, err
	}
	if !s.knownItem(id) {
		return Mark{}, apperrors.Wrap(apperrors.CodeNotFound, "item "+id+" not found", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	mark := Mark{Caught: caught}
	s.state.Marks[id] = mark
	s.persistLocked(ctx)
	return mark, nil
}

// BulkMark sets every item currently shown for the category.
func (s *service) BulkMark(ctx context.Context, category catalog.Category, caught bool) (int, error) {
	items, err := s.items(ctx, category)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	st := s.state
	shown := Arrange(ApplyFilters(category, items, st.Filters.For(category), st.Marks, st.Settings.Hemisphere), st.Settings, s.now())
	for _, it := range shown {
		s.state.Marks[it.ID] = Mark{Caught: caught}
	}
	if len(shown) > 0 {
		s.persistLocked(ctx)
	}
	return len(shown), nil
}

func (s *service) UpdateFilter(ctx context.Context, category catalog.Category, patch FilterPatch) (Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	next, err := patch.apply(category, s.state.Filters.For(category))
	if err != nil {
		return Filter{}, err
	}
	s.state.Filters = s.state.Filters.With(category, next)
	s.persistLocked(ctx)
	return next, nil
}

func (s *service) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	next, err := patch.apply(s.state.Settings)
	if err != nil {
		return Settings{}, err
	}
	s.state.Settings = next
	s.persistLocked(ctx)
	return next, nil
}

func (s *service) SetTab(ctx context.Context, category catalog.Category) error {
	if _, ok := catalog.ParseCategory(string(category)); !ok {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown category "+string(category), nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	s.state.Tab = category
	s.persistLocked(ctx)
	return nil
}

// items returns the category's dataset once every dataset is available.
func (s *service) items(ctx context.Context, category catalog.Category) ([]catalog.Item, error) {
	if _, ok := catalog.ParseCategory(string(category)); !ok {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown category "+string(category), nil)
	}
	if err := s.ensureDatasets(ctx); err != nil {
		return nil, err
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return s.datasets[category], nil
}

// ensureDatasets loads the missing datasets, keeping whatever succeeded, and
// seeds marks for new items once all are present.
func (s *service) ensureDatasets(ctx context.Context) error {
	s.dataMu.Lock()
	for _, c := range catalog.Categories() {
		if _, ok := s.datasets[c]; ok {
			continue
		}
		items, err := s.loader.Load(ctx, c)
		if err != nil {
			s.dataMu.Unlock()
			return err
		}
		s.datasets[c] = items
	}
	all := make([]catalog.Item, 0)
	for _, c := range catalog.Categories() {
		all = append(all, s.datasets[c]...)
	}
	s.dataMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStateLocked(ctx)
	if s.seeded {
		return nil
	}
	s.seeded = true
	changed := false
	for _, it := range all {
		if _, ok := s.state.Marks[it.ID]; ok {
			continue
		}
		s.state.Marks[it.ID] = Mark{Caught: it.Initial.Caught}
		changed = true
	}
	if changed {
		s.persistLocked(ctx)
	}
	return nil
}

func (s *service) knownItem(id string) bool {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	for _, items := range s.datasets {
		if _, ok := findItem(items, id); ok {
			return true
		}
	}
	return false
}

func (s *service) ensureStateLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	st, found := s.repo.Load(ctx)
	if !found && s.cfg.DefaultHemisphere != "" {
		st.Settings.Hemisphere = s.cfg.DefaultHemisphere
	}
	s.state = st
	s.loaded = true
}

// persistLocked saves best-effort; failures never reach the caller.
func (s *service) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.state); err != nil {
		s.logger.Warn("state save failed", "error", err)
	}
}

func findItem(items []catalog.Item, id string) (catalog.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return catalog.Item{}, false
}

func progressOf(items []catalog.Item, marks Marks) metrics.Progress {
	p := metrics.Progress{Total: len(items)}
	for _, it := range items {
		if marks.Caught(it.ID) {
			p.Caught++
		}
	}
	return p
}

var _ Service = (*service)(nil)
