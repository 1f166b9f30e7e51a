// internal/catalog/catalog.go
//
// Dish catalog and guess validation list for the kitchen game.
//
// Responsibilities:
//   - Load the fixed dish catalog (each dish has five 5-letter uppercase
//     ingredient words) from an environment-provided file or fall back to
//     the embedded default.
//   - Maintain the validation word set (valid words ∪ all ingredients) so
//     "is this a real ingredient word" is a cheap lookup.
//   - Supply uniform random dish/ingredient selection for round rotation.
//
// Environment variables:
//   DISHES_FILE=/path/to/dishes.json
//
// Constraints:
//   • Ingredient words must be exactly 5 ASCII letters; they are
//     normalized to uppercase.
//   • Dishes that do not carry exactly 5 valid ingredients are dropped
//     with a warning.
//   • Initialization runs once (sync.Once).

package catalog

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/ochakos-kitchen/go-server/assets"
)

// WordLength is the fixed ingredient word length.
const WordLength = 5

// IngredientsPerDish is the fixed ingredient count per dish.
const IngredientsPerDish = 5

// Dish is one catalog entry. Immutable after Load.
type Dish struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

type dishFile struct {
	Dishes []Dish `json:"dishes"`
}

var (
	initOnce   sync.Once
	dishes     []Dish
	validSet   map[string]struct{} // validation words ∪ ingredients
	initialErr error
)

// Load parses the catalog exactly once.
// Returns an error if no valid dishes remain after filtering.
func Load() error {
	initOnce.Do(func() {
		raw, err := readCatalogBytes()
		if err != nil {
			initialErr = err
			return
		}
		var df dishFile
		if err := json.Unmarshal(raw, &df); err != nil {
			initialErr = err
			return
		}

		dishes = lo.FilterMap(df.Dishes, func(d Dish, _ int) (Dish, bool) {
			words := lo.FilterMap(d.Ingredients, func(w string, _ int) (string, bool) {
				w = strings.ToUpper(strings.TrimSpace(w))
				return w, len(w) == WordLength && isAlpha(w)
			})
			if len(words) != IngredientsPerDish {
				log.Warn().Str("dish", d.Name).Int("valid", len(words)).Msg("skipping dish with bad ingredient list")
				return Dish{}, false
			}
			return Dish{Name: d.Name, Ingredients: words}, true
		})
		if len(dishes) == 0 {
			initialErr = errors.New("catalog: no valid dishes")
			return
		}

		valid, err := assets.ValidWords()
		if err != nil {
			initialErr = err
			return
		}
		validSet = make(map[string]struct{}, len(valid))
		for _, w := range valid {
			if len(w) == WordLength && isAlpha(w) {
				validSet[w] = struct{}{}
			}
		}
		// Every catalog ingredient is always a valid guess.
		for _, d := range dishes {
			for _, w := range d.Ingredients {
				validSet[w] = struct{}{}
			}
		}
	})
	return initialErr
}

// readCatalogBytes prefers DISHES_FILE over the embedded default.
func readCatalogBytes() ([]byte, error) {
	if path := os.Getenv("DISHES_FILE"); path != "" {
		return os.ReadFile(path)
	}
	return assets.DishesJSON()
}

// Dishes returns the loaded catalog.
func Dishes() []Dish {
	return dishes
}

// RandomDish picks a dish uniformly at random.
// Falls back to the first dish if entropy fails.
func RandomDish() Dish {
	if len(dishes) == 1 {
		return dishes[0]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(dishes))))
	if err != nil {
		log.Warn().Err(err).Msg("random dish selection failed, using fallback")
		return dishes[0]
	}
	return dishes[n.Int64()]
}

// RandomIngredient picks an ingredient index uniformly at random and
// returns it together with the word at that index.
func (d Dish) RandomIngredient() (int, string) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.Ingredients))))
	if err != nil {
		log.Warn().Err(err).Str("dish", d.Name).Msg("random ingredient selection failed, using fallback")
		return 0, d.Ingredients[0]
	}
	return int(n.Int64()), d.Ingredients[n.Int64()]
}

// IsValidWord reports whether w is an accepted guess word.
func IsValidWord(w string) bool {
	_, ok := validSet[strings.ToUpper(w)]
	return ok
}

// Stats returns counts of loaded data: (dishes, valid words).
func Stats() (dishCount int, validCount int) {
	return len(dishes), len(validSet)
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
