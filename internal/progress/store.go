// Package progress holds the player's character selection, planet unlocks
// and star ratings for a single play session. It performs no I/O.
package progress

import (
	"errors"
	"sync"
)

var (
	// ErrUnknownCharacter is returned for ids missing from the catalog.
	ErrUnknownCharacter = errors.New("unknown character")

	// ErrCharacterAlreadySelected is returned when a second selection is attempted.
	ErrCharacterAlreadySelected = errors.New("character already selected")

	// ErrUnknownPlanet is returned for ids that are not on the map.
	ErrUnknownPlanet = errors.New("unknown planet")

	// ErrPlanetLocked is returned when navigating to a planet that is still locked.
	ErrPlanetLocked = errors.New("planet is locked")

	// ErrNoCharacter is returned when navigating before a character is chosen.
	ErrNoCharacter = errors.New("no character selected")
)

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	Character     *Character
	Planets       []Planet
	CurrentPlanet *PlanetID
	TotalStars    int
}

// Screen derives the active screen from the snapshot.
func (s Snapshot) Screen() Screen {
	switch {
	case s.Character == nil:
		return ScreenCharacterSelect
	case s.CurrentPlanet != nil:
		return ScreenMiniGame
	default:
		return ScreenMap
	}
}

// Planet returns the planet with the given id from the snapshot.
func (s Snapshot) Planet(id PlanetID) (Planet, bool) {
	for _, p := range s.Planets {
		if p.ID == id {
			return p, true
		}
	}
	return Planet{}, false
}

// Store is the mutable progress state. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	character  *Character
	planets    []Planet
	current    *PlanetID
	totalStars int
}

// NewStore returns a store in its initial state: no character, only the
// first planet unlocked, no stars.
func NewStore() *Store {
	planets := make([]Planet, len(initialPlanets))
	copy(planets, initialPlanets)
	return &Store{planets: planets}
}

// SelectCharacter records the one-time character choice.
func (s *Store) SelectCharacter(id CharacterID) (Character, error) {
	c, ok := LookupCharacter(id)
	if !ok {
		return Character{}, ErrUnknownCharacter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.character != nil {
		return *s.character, ErrCharacterAlreadySelected
	}
	s.character = &c
	return c, nil
}

// Character returns the selected character, if any.
func (s *Store) Character() (Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.character == nil {
		return Character{}, false
	}
	return *s.character, true
}

// VoiceName returns the selected character's voice, or "" before selection.
func (s *Store) VoiceName() string {
	if c, ok := s.Character(); ok {
		return c.VoiceName
	}
	return ""
}

// UnlockNextPlanet unlocks the planet that follows current in map order.
// It reports whether a planet was unlocked. Unknown or locked ids, the last
// planet and an already unlocked successor are all no-ops.
func (s *Store) UnlockNextPlanet(current PlanetID) (PlanetID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(current)
	if i < 0 || i >= len(s.planets)-1 || !s.planets[i].Unlocked {
		return "", false
	}
	next := &s.planets[i+1]
	if next.Unlocked {
		return "", false
	}
	next.Unlocked = true
	return next.ID, true
}

// AddStars raises a planet's rating to count if that is higher than the
// current rating, and recomputes the total. Ratings never decrease.
func (s *Store) AddStars(id PlanetID, count int) error {
	if count > MaxStars {
		count = MaxStars
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownPlanet
	}
	s.planets[i].Stars = max(s.planets[i].Stars, count)

	total := 0
	for _, p := range s.planets {
		total += p.Stars
	}
	s.totalStars = total
	return nil
}

// SetCurrentPlanet points navigation at an unlocked planet's mini-game.
// The map, and so every planet, is only reachable once a character is
// selected.
func (s *Store) SetCurrentPlanet(id PlanetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownPlanet
	}
	if s.character == nil {
		return ErrNoCharacter
	}
	if !s.planets[i].Unlocked {
		return ErrPlanetLocked
	}
	s.current = &id
	return nil
}

// ClearCurrentPlanet returns navigation to the map.
func (s *Store) ClearCurrentPlanet() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// CurrentPlanet returns the planet whose mini-game is active, if any.
func (s *Store) CurrentPlanet() (PlanetID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return "", false
	}
	return *s.current, true
}

// Planet returns a copy of one planet.
func (s *Store) Planet(id PlanetID) (Planet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Planet{}, false
	}
	return s.planets[i], true
}

// IsLastPlanet reports whether id is the final planet on the map.
func (s *Store) IsLastPlanet(id PlanetID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) == len(s.planets)-1
}

// TotalStars returns the sum of all planet ratings.
func (s *Store) TotalStars() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalStars
}

// Screen returns the active top-level screen.
func (s *Store) Screen() Screen {
	return s.Snapshot().Screen()
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Planets:    make([]Planet, len(s.planets)),
		TotalStars: s.totalStars,
	}
	copy(snap.Planets, s.planets)
	if s.character != nil {
		c := *s.character
		snap.Character = &c
	}
	if s.current != nil {
		id := *s.current
		snap.CurrentPlanet = &id
	}
	return snap
}

func (s *Store) indexOf(id PlanetID) int {
	for i, p := range s.planets {
		if p.ID == id {
			return i
		}
	}
	return -1
}
