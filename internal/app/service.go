// Package app composes the catalogs, the fitting engine, and record storage
// into the operations offered to front ends.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/markwingerd/dft-old/internal/game/catalog"
	"github.com/markwingerd/dft-old/internal/game/fitting"
	"github.com/markwingerd/dft-old/internal/game/skill"
	"github.com/markwingerd/dft-old/internal/game/stacking"
	"github.com/markwingerd/dft-old/internal/observability"
	"github.com/markwingerd/dft-old/internal/storage"
)

// UntrainedName names the implicit character with every skill at level 0.
const UntrainedName = "Untrained"

// ErrFingerprintMismatch is returned when a replayed fitting does not reproduce
// the stored fingerprint.
var ErrFingerprintMismatch = errors.New("fitting fingerprint mismatch")

// ReplayError reports a stored item that could not be fitted on reload.
type ReplayError struct {
	Fitting string
	Item    storage.ItemRef
	Reason  fitting.RejectReason
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("fitting %q: %s %q rejected on reload: %s", e.Fitting, e.Item.Kind, e.Item.Name, e.Reason)
}

// Service is the application facade over a catalog library and a record store.
//
// Service is safe for concurrent use; the Fittings it returns are not.
type Service struct {
	lib     *catalog.Library
	store   storage.Store
	logger  *zap.Logger
	metrics *observability.Metrics
	order   stacking.Order
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records fitting and storage activity into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStackingOrder sets the stacking policy of every Fitting the Service builds.
func WithStackingOrder(o stacking.Order) Option {
	return func(s *Service) {
		s.order = o
	}
}

// NewService creates a Service.
//
// Precondition: lib, store, and logger must be non-nil.
// Postcondition: Returns a ready Service using insertion-order stacking unless configured.
func NewService(lib *catalog.Library, store storage.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		lib:    lib,
		store:  store,
		logger: logger,
		order:  stacking.Insertion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library returns the catalogs the Service resolves against.
func (s *Service) Library() *catalog.Library {
	return s.lib
}

// CreateCharacter stores a new untrained character, replacing any existing
// character with the same name.
func (s *Service) CreateCharacter(ctx context.Context, name string) (*skill.Character, error) {
	c := skill.NewCharacter(name, s.lib.Skills)
	if err := s.saveCharacter(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetSkill trains one skill of a stored character and saves it.
//
// Postcondition: Returns *storage.UnknownCharacterError or *skill.UnknownSkillError
// on bad names; the level is clamped to [0, 5].
func (s *Service) SetSkill(ctx context.Context, character, skillName string, level int) (*skill.Character, error) {
	c, err := s.Character(ctx, character)
	if err != nil {
		return nil, err
	}
	if err := c.SetSkill(skillName, level); err != nil {
		return nil, err
	}
	if err := s.saveCharacter(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Character loads a stored character. UntrainedName always resolves to a
// character with no skills, whether or not it is stored.
func (s *Service) Character(ctx context.Context, name string) (*skill.Character, error) {
	if name == "" || name == UntrainedName {
		return skill.NewCharacter(UntrainedName, s.lib.Skills), nil
	}
	rec, err := s.store.GetCharacter(ctx, name)
	if err != nil {
		return nil, err
	}
	c := skill.NewCharacter(rec.Name, s.lib.Skills)
	for skillName, level := range rec.Skills {
		if err := c.SetSkill(skillName, level); err != nil {
			return nil, fmt.Errorf("loading character %q: %w", name, err)
		}
	}
	return c, nil
}

// DeleteCharacter removes a stored character. Fittings saved for it are kept.
func (s *Service) DeleteCharacter(ctx context.Context, name string) error {
	if err := s.store.DeleteCharacter(ctx, name); err != nil {
		return err
	}
	s.metrics.RecordDeleted(storage.KindCharacter)
	s.logger.Info("character deleted", zap.String("character", name))
	return nil
}

// CharacterNames lists stored characters in ascending order.
func (s *Service) CharacterNames(ctx context.Context) ([]string, error) {
	return s.store.CharacterNames(ctx)
}

func (s *Service) saveCharacter(ctx context.Context, c *skill.Character) error {
	rec := storage.CharacterRecord{Name: c.Name, Skills: c.Levels()}
	if err := s.store.SaveCharacter(ctx, rec); err != nil {
		return fmt.Errorf("saving character %q: %w", c.Name, err)
	}
	s.metrics.RecordSaved(storage.KindCharacter)
	s.logger.Info("character saved",
		zap.String("character", c.Name),
		zap.Int("trained_skills", len(rec.Skills)),
	)
	return nil
}

// NewFitting builds an empty Fitting on dropsuit for the named character.
func (s *Service) NewFitting(ctx context.Context, character, dropsuit string) (*fitting.Fitting, error) {
	c, err := s.Character(ctx, character)
	if err != nil {
		return nil, err
	}
	f, err := fitting.New(s.lib, c, dropsuit, fitting.WithStackingOrder(s.order))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fitting built",
		zap.String("character", c.Name),
		zap.String("dropsuit", dropsuit),
		zap.String("stacking_order", string(s.order)),
	)
	return f, nil
}

// AddModule fits a module to f.
func (s *Service) AddModule(f *fitting.Fitting, name string) (fitting.AddResult, error) {
	return s.Add(f, catalog.KindModule, name)
}

// AddWeapon fits a weapon to f.
func (s *Service) AddWeapon(f *fitting.Fitting, name string) (fitting.AddResult, error) {
	return s.Add(f, catalog.KindWeapon, name)
}

// Add fits the named entry of kind to f, logging and counting the outcome.
// A rejected add is reported in the result, not as an error.
func (s *Service) Add(f *fitting.Fitting, kind catalog.Kind, name string) (fitting.AddResult, error) {
	res, err := f.Add(kind, name)
	if err != nil {
		return res, err
	}
	slot := res.Slot.Key()
	if !res.Accepted {
		s.metrics.ItemRejected(slot, string(res.Reason))
		s.logger.Info("item rejected",
			zap.String("kind", string(kind)),
			zap.String("item", name),
			zap.String("slot", slot),
			zap.String("reason", string(res.Reason)),
		)
		return res, nil
	}
	s.metrics.ItemAdded(slot)
	s.logger.Debug("item fitted",
		zap.String("kind", string(kind)),
		zap.String("item", name),
		zap.String("slot", slot),
		zap.String("instance_id", res.Item.InstanceID),
	)
	return res, nil
}

// RemoveModule removes the first item named name from f, scanning slots in
// catalog.SlotOrder, and reports whether anything was removed.
func (s *Service) RemoveModule(f *fitting.Fitting, name string) bool {
	for _, slot := range catalog.SlotOrder {
		for _, it := range f.Fitted(slot) {
			if it.Name != name {
				continue
			}
			f.RemoveItem(it.InstanceID)
			s.metrics.ItemRemoved(slot.Key())
			s.logger.Debug("item removed",
				zap.String("item", name),
				zap.String("slot", slot.Key()),
				zap.String("instance_id", it.InstanceID),
			)
			return true
		}
	}
	return false
}

// Record captures f as a storable FittingRecord named name.
func Record(name string, f *fitting.Fitting) storage.FittingRecord {
	items := f.Items()
	rec := storage.FittingRecord{
		Name:        name,
		Character:   f.Character().Name,
		Dropsuit:    f.Dropsuit().Name,
		Items:       make([]storage.ItemRef, 0, len(items)),
		Fingerprint: f.Fingerprint(),
	}
	for _, it := range items {
		rec.Items = append(rec.Items, storage.ItemRef{Kind: string(it.Kind), Name: it.Name})
	}
	return rec
}

// SaveFitting stores f under name, replacing any fitting with the same name.
func (s *Service) SaveFitting(ctx context.Context, name string, f *fitting.Fitting) error {
	rec := Record(name, f)
	if err := s.store.SaveFitting(ctx, rec); err != nil {
		return fmt.Errorf("saving fitting %q: %w", name, err)
	}
	s.metrics.RecordSaved(storage.KindFitting)
	s.logger.Info("fitting saved",
		zap.String("fitting", name),
		zap.String("character", rec.Character),
		zap.String("dropsuit", rec.Dropsuit),
		zap.Int("items", len(rec.Items)),
		zap.String("fingerprint", rec.Fingerprint),
	)
	return nil
}

// LoadFitting rebuilds a stored fitting for its saved character by replaying
// its items in order.
//
// Postcondition: Returns *ReplayError when an item no longer fits and
// ErrFingerprintMismatch when the rebuilt loadout differs from the stored one.
func (s *Service) LoadFitting(ctx context.Context, name string) (*fitting.Fitting, error) {
	return s.LoadFittingAs(ctx, name, "")
}

// LoadFittingAs rebuilds a stored fitting for character, or for its saved
// character when character is empty. The saved character need not still exist.
func (s *Service) LoadFittingAs(ctx context.Context, name, character string) (*fitting.Fitting, error) {
	rec, err := s.store.GetFitting(ctx, name)
	if err != nil {
		return nil, err
	}
	if character == "" {
		character = rec.Character
	}
	return s.Replay(ctx, rec, character)
}

// Replay rebuilds rec for the named character.
func (s *Service) Replay(ctx context.Context, rec storage.FittingRecord, character string) (*fitting.Fitting, error) {
	f, err := s.NewFitting(ctx, character, rec.Dropsuit)
	if err != nil {
		return nil, fmt.Errorf("fitting %q: %w", rec.Name, err)
	}
	for _, ref := range rec.Items {
		res, err := f.Add(catalog.Kind(ref.Kind), ref.Name)
		if err != nil {
			return nil, fmt.Errorf("fitting %q: %w", rec.Name, err)
		}
		if !res.Accepted {
			return nil, &ReplayError{Fitting: rec.Name, Item: ref, Reason: res.Reason}
		}
	}
	if rec.Fingerprint != "" && rec.Fingerprint != f.Fingerprint() {
		return nil, fmt.Errorf("fitting %q: %w", rec.Name, ErrFingerprintMismatch)
	}
	return f, nil
}

// DeleteFitting removes a stored fitting.
func (s *Service) DeleteFitting(ctx context.Context, name string) error {
	if err := s.store.DeleteFitting(ctx, name); err != nil {
		return err
	}
	s.metrics.RecordDeleted(storage.KindFitting)
	s.logger.Info("fitting deleted", zap.String("fitting", name))
	return nil
}

// FittingNames lists stored fittings in ascending order.
func (s *Service) FittingNames(ctx context.Context) ([]string, error) {
	return s.store.FittingNames(ctx)
}

// DropsuitNames lists every dropsuit in catalog order.
func (s *Service) DropsuitNames() []string {
	return s.lib.Dropsuits.Names()
}

// ModuleCategories lists module categories in catalog order.
func (s *Service) ModuleCategories() []string {
	return s.lib.Modules.Categories()
}

// ModulesIn lists the modules of category with their CPU and PG costs.
func (s *Service) ModulesIn(category string) []catalog.Member {
	return s.lib.Modules.MembersOf(category)
}

// WeaponCategories lists weapon categories in catalog order.
func (s *Service) WeaponCategories() []string {
	return s.lib.Weapons.Categories()
}

// WeaponsIn lists the weapons of category with their CPU and PG costs.
func (s *Service) WeaponsIn(category string) []catalog.Member {
	return s.lib.Weapons.MembersOf(category)
}

// SkillCategories lists skill categories in catalog order.
func (s *Service) SkillCategories() []string {
	return s.lib.Skills.Categories()
}
