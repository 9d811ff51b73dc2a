// Package boardstate keeps a per-board snapshot of lists and cards that can
// be mutated optimistically ahead of persistence and reconciled wholesale
// from the store. Readers must treat snapshots as eventually consistent; the
// authoritative order always comes from the next reload.
package boardstate

import (
	"sync"

	"github.com/nanaqwameboafo/trello-clone/internal/models"
)

// Loader fetches the authoritative state of one board. The repository's
// BoardRepository satisfies it.
type Loader interface {
	ListsByBoard(boardID uint64) ([]models.List, error)
	CardsByBoard(boardID uint64) ([]models.Card, error)
}

// Snapshot is one consistent view of a board. Generation increases on every
// mutation, optimistic or authoritative, so clients can detect staleness.
type Snapshot struct {
	BoardID    uint64
	Generation uint64
	Lists      []models.List
	Cards      []models.Card
}

type entry struct {
	generation uint64
	stale      bool
	lists      []models.List
	cards      []models.Card
}

// Cache holds board snapshots keyed by board ID.
type Cache struct {
	mu     sync.Mutex
	loader Loader
	boards map[uint64]*entry
}

// NewCache creates a Cache backed by the given loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		boards: make(map[uint64]*entry),
	}
}

// Snapshot returns the current view of a board, reloading from the store when
// the cached state is absent or has been invalidated. Reconciliation replaces
// the cached slices wholesale rather than diff-merging.
func (c *Cache) Snapshot(boardID uint64) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.boards[boardID]
	if !ok || e.stale {
		lists, err := c.loader.ListsByBoard(boardID)
		if err != nil {
			return Snapshot{}, err
		}
		cards, err := c.loader.CardsByBoard(boardID)
		if err != nil {
			return Snapshot{}, err
		}
		if !ok {
			e = &entry{}
			c.boards[boardID] = e
		}
		e.lists = lists
		e.cards = cards
		e.stale = false
		e.generation++
	}

	return Snapshot{
		BoardID:    boardID,
		Generation: e.generation,
		Lists:      append([]models.List(nil), e.lists...),
		Cards:      append([]models.Card(nil), e.cards...),
	}, nil
}

// ApplyCardMove mutates the cached board optimistically: the card takes the
// target list and position and is placed immediately before the first card in
// the target list with an equal or greater position. Equal positions are an
// intentional tie; slice order carries the drop intent until the next
// authoritative reload supersedes it.
func (c *Cache) ApplyCardMove(boardID, cardID, targetListID uint64, position int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.boards[boardID]
	if !ok {
		return
	}

	idx := -1
	for i := range e.cards {
		if e.cards[i].ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	card := e.cards[idx]
	card.ListID = targetListID
	card.Position = position
	e.cards = append(e.cards[:idx], e.cards[idx+1:]...)

	insert := len(e.cards)
	for i := range e.cards {
		if e.cards[i].ListID == targetListID && e.cards[i].Position >= position {
			insert = i
			break
		}
	}
	e.cards = append(e.cards, models.Card{})
	copy(e.cards[insert+1:], e.cards[insert:])
	e.cards[insert] = card
	e.generation++
}

// Invalidate marks a board stale; the next Snapshot call re-fetches it.
func (c *Cache) Invalidate(boardID uint64) {
	c.mu.Lock()
	if e, ok := c.boards[boardID]; ok {
		e.stale = true
	}
	c.mu.Unlock()
}

// Forget drops a board from the cache entirely, for board deletion.
func (c *Cache) Forget(boardID uint64) {
	c.mu.Lock()
	delete(c.boards, boardID)
	c.mu.Unlock()
}
