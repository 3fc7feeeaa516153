package safety

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Store is an in-memory chemical safety database guarded by a read-write
// mutex. A new store starts seeded with the data sheets for the common pool
// chemicals and their compatibility matrix.
type Store struct {
	mu            sync.RWMutex
	chemicals     map[string]Chemical
	compatibility map[string]map[string]bool
}

// NewStore creates a store seeded with the default data sheets.
func NewStore() *Store {
	s := &Store{
		chemicals:     make(map[string]Chemical),
		compatibility: make(map[string]map[string]bool),
	}
	s.seed()
	return s
}

// NewStoreFromSnapshot restores a store from a JSON snapshot previously
// produced by Snapshot. An empty snapshot yields an empty store, not the
// seeded defaults.
func NewStoreFromSnapshot(data []byte) (*Store, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing safety snapshot: %w", err)
	}

	s := &Store{
		chemicals:     make(map[string]Chemical, len(snap.Chemicals)),
		compatibility: make(map[string]map[string]bool, len(snap.Compatibility)),
	}
	for id, c := range snap.Chemicals {
		id = normalizeID(id)
		c.ID = id
		s.chemicals[id] = c
	}
	for id, row := range snap.Compatibility {
		id = normalizeID(id)
		s.compatibility[id] = make(map[string]bool, len(row))
		for other, v := range row {
			s.compatibility[id][normalizeID(other)] = v == 1
		}
	}
	return s, nil
}

// snapshot is the JSON persistence shape: data sheets keyed by id and the
// matrix as 0/1 flags.
type snapshot struct {
	Chemicals     map[string]Chemical       `json:"chemicals"`
	Compatibility map[string]map[string]int `json:"compatibility"`
}

// Snapshot serializes the store for persistence.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		Chemicals:     make(map[string]Chemical, len(s.chemicals)),
		Compatibility: make(map[string]map[string]int, len(s.compatibility)),
	}
	for id, c := range s.chemicals {
		snap.Chemicals[id] = c
	}
	for id, row := range s.compatibility {
		snap.Compatibility[id] = make(map[string]int, len(row))
		for other, ok := range row {
			if ok {
				snap.Compatibility[id][other] = 1
			} else {
				snap.Compatibility[id][other] = 0
			}
		}
	}
	return json.MarshalIndent(snap, "", "    ")
}

// Get returns the data sheet for a chemical id.
func (s *Store) Get(id string) (Chemical, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chemicals[normalizeID(id)]
	if !ok {
		return Chemical{}, fmt.Errorf("%w: %q", ErrChemicalNotFound, id)
	}
	return copyChemical(c), nil
}

// List returns every data sheet ordered by id.
func (s *Store) List() []Chemical {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Chemical, 0, len(s.chemicals))
	for _, c := range s.chemicals {
		out = append(out, copyChemical(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of data sheets.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chemicals)
}

// Upsert adds or replaces a data sheet. New chemicals start with an empty
// compatibility row; pair entries are added via SetCompatibility.
func (s *Store) Upsert(c Chemical) error {
	c.ID = normalizeID(c.ID)
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chemicals[c.ID] = copyChemical(c)
	if _, ok := s.compatibility[c.ID]; !ok {
		s.compatibility[c.ID] = make(map[string]bool)
	}
	return nil
}

// Delete removes a data sheet and scrubs every compatibility entry that
// references it.
func (s *Store) Delete(id string) error {
	id = normalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chemicals[id]; !ok {
		return fmt.Errorf("%w: %q", ErrChemicalNotFound, id)
	}

	delete(s.chemicals, id)
	delete(s.compatibility, id)
	for _, row := range s.compatibility {
		delete(row, id)
	}
	return nil
}

// Compatible reports whether two chemicals can be stored or handled together.
// A chemical is always compatible with itself. Unknown ids are never reported
// compatible.
func (s *Store) Compatible(a, b string) bool {
	a, b = normalizeID(a), normalizeID(b)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rowA, okA := s.compatibility[a]
	_, okB := s.compatibility[b]
	if !okA || !okB {
		return false
	}
	if a == b {
		return true
	}
	return rowA[b]
}

// SetCompatibility records whether two chemicals are compatible, in both
// directions. Both chemicals must have data sheets.
func (s *Store) SetCompatibility(a, b string, compatible bool) error {
	a, b = normalizeID(a), normalizeID(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chemicals[a]; !ok {
		return fmt.Errorf("%w: %q", ErrChemicalNotFound, a)
	}
	if _, ok := s.chemicals[b]; !ok {
		return fmt.Errorf("%w: %q", ErrChemicalNotFound, b)
	}

	if _, ok := s.compatibility[a]; !ok {
		s.compatibility[a] = make(map[string]bool)
	}
	if _, ok := s.compatibility[b]; !ok {
		s.compatibility[b] = make(map[string]bool)
	}
	s.compatibility[a][b] = compatible
	s.compatibility[b][a] = compatible
	return nil
}

// CompatibleWith returns the ids recorded as compatible with the given
// chemical, sorted. Unknown ids yield an empty list.
func (s *Store) CompatibleWith(id string) []string {
	return s.matrixRow(id, true)
}

// IncompatibleWith returns the ids recorded as incompatible with the given
// chemical, sorted. Unknown ids yield an empty list.
func (s *Store) IncompatibleWith(id string) []string {
	return s.matrixRow(id, false)
}

func (s *Store) matrixRow(id string, want bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.compatibility[normalizeID(id)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(row))
	for other, compatible := range row {
		if compatible == want {
			out = append(out, other)
		}
	}
	sort.Strings(out)
	return out
}

// HazardRating returns the hazard rating for a chemical id.
func (s *Store) HazardRating(id string) (int, error) {
	c, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return c.HazardRating, nil
}

// Precautions returns the handling precautions for a chemical id.
func (s *Store) Precautions(id string) ([]string, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return c.Precautions, nil
}

func copyChemical(c Chemical) Chemical {
	out := c
	out.Precautions = append([]string(nil), c.Precautions...)
	return out
}

// seed loads the built-in data sheets for the common pool chemicals and their
// compatibility matrix. Muriatic acid is the lone incompatibility hub: it must
// never share storage with chlorine products or bicarbonate.
func (s *Store) seed() {
	for _, c := range DefaultChemicals() {
		s.chemicals[c.ID] = c
	}

	ids := make([]string, 0, len(s.chemicals))
	for id := range s.chemicals {
		ids = append(ids, id)
	}
	for _, a := range ids {
		s.compatibility[a] = make(map[string]bool, len(ids)-1)
		for _, b := range ids {
			if a != b {
				s.compatibility[a][b] = true
			}
		}
	}
	for _, pair := range [][2]string{
		{"chlorine", "muriatic_acid"},
		{"muriatic_acid", "sodium_bicarbonate"},
		{"muriatic_acid", "calcium_hypochlorite"},
	} {
		s.compatibility[pair[0]][pair[1]] = false
		s.compatibility[pair[1]][pair[0]] = false
	}
}

// DefaultChemicals returns the built-in data sheets.
func DefaultChemicals() []Chemical {
	return []Chemical{
		{
			ID:           "chlorine",
			Name:         "Chlorine",
			Formula:      "Cl₂",
			HazardRating: 3,
			Precautions: []string{
				"Wear protective gloves and eye protection",
				"Use in well-ventilated areas",
				"Keep away from acids to prevent chlorine gas formation",
			},
			Storage:   "Store in cool, dry place away from direct sunlight and incompatible materials",
			Emergency: "In case of exposure, move to fresh air and seek medical attention",
		},
		{
			ID:           "muriatic_acid",
			Name:         "Muriatic Acid (Hydrochloric Acid)",
			Formula:      "HCl",
			HazardRating: 3,
			Precautions: []string{
				"Always add acid to water, never water to acid",
				"Wear chemical-resistant gloves, goggles, and protective clothing",
				"Use in well-ventilated areas",
			},
			Storage:   "Store in original container in cool, well-ventilated area away from bases",
			Emergency: "For skin contact, flush with water for 15 minutes and seek medical attention",
		},
		{
			ID:           "sodium_bicarbonate",
			Name:         "Sodium Bicarbonate (Baking Soda)",
			Formula:      "NaHCO₃",
			HazardRating: 1,
			Precautions: []string{
				"Minimal safety equipment required",
				"Avoid generating dust",
			},
			Storage:   "Store in dry area in sealed container",
			Emergency: "If in eyes, rinse with water",
		},
		{
			ID:           "calcium_hypochlorite",
			Name:         "Calcium Hypochlorite",
			Formula:      "Ca(ClO)₂",
			HazardRating: 3,
			Precautions: []string{
				"Wear protective gloves, clothing, and eye protection",
				"Keep away from heat and combustible materials",
				"Never mix with acids or ammonia",
			},
			Storage:   "Store in cool, dry place away from acids and organic materials",
			Emergency: "In case of fire, use water spray. For exposure, seek medical attention",
		},
		{
			ID:           "cyanuric_acid",
			Name:         "Cyanuric Acid",
			Formula:      "C₃H₃N₃O₃",
			HazardRating: 1,
			Precautions: []string{
				"Avoid dust formation",
				"Use with adequate ventilation",
			},
			Storage:   "Store in dry, cool place in closed containers",
			Emergency: "If inhaled, move to fresh air",
		},
	}
}
