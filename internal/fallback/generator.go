// Package fallback synthesizes plausible local activities when every
// provider comes back empty. The response stays useful instead of
// presenting a blank page for a small town or a total outage.
package fallback

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/metrics"
)

// SourceName marks generated records so clients can tell them from
// provider-backed ones.
const SourceName = "Local"

const idPrefix = "local-"

// maxRecords caps the synthetic batch regardless of trip length.
const maxRecords = 15

// perDay is how many synthetic activities a single trip day earns.
const perDay = 3

// template is one synthetic activity shape. namePattern takes the city.
type template struct {
	namePattern string
	category    string
	venue       string
	description string
	free        bool
}

var templates = []template{
	{"%s Walking Tour", "Tour", "City Center", "Guided walk through the historic center.", false},
	{"%s Farmers Market", "Market", "Main Square", "Local produce, crafts and street food.", true},
	{"Live Music at %s Tavern", "Music", "Old Town Tavern", "Local bands most evenings.", false},
	{"%s Art Gallery Visit", "Cultural", "Municipal Gallery", "Rotating exhibits from regional artists.", true},
	{"%s Riverside Walk", "Outdoor", "Riverside Park", "Easy trail along the water.", true},
	{"%s Food Tasting", "Dining", "Market Hall", "Sampler of regional specialties.", false},
	{"%s History Museum", "Museum", "History Museum", "Exhibits on the city's past.", false},
	{"Sunset Viewpoint in %s", "Outdoor", "Lookout Hill", "Best panorama in town.", true},
	{"%s Craft Workshop", "Workshop", "Community Center", "Hands-on session with local makers.", false},
	{"%s Night Market", "Market", "Harbor Promenade", "Evening stalls and street performers.", true},
}

// Generator produces the synthetic batch. A shared rng keeps output
// varied across requests; tests inject a seeded one.
type Generator struct {
	logger logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func New(log logger.Logger) *Generator {
	return &Generator{
		logger: log.WithFields(map[string]interface{}{"provider": SourceName}),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewWithSeed is for tests that need reproducible output.
func NewWithSeed(log logger.Logger, seed int64) *Generator {
	g := New(log)
	g.rng = rand.New(rand.NewSource(seed))
	return g
}

// Generate returns min(days*3, 15) synthetic records for the query.
// Structure is deterministic (template rotation), values are randomized
// (dates within the range, times, prices).
func (g *Generator) Generate(q catalog.Query) []catalog.Record {
	count := q.Days() * perDay
	if count > maxRecords {
		count = maxRecords
	}

	metrics.FallbackInvocations.Inc()
	g.logger.Info("generating fallback activities", map[string]interface{}{
		"city":  q.City,
		"count": count,
	})

	g.mu.Lock()
	defer g.mu.Unlock()

	// Random rotation offset so repeat requests do not always lead with
	// the same template.
	offset := g.rng.Intn(len(templates))

	records := make([]catalog.Record, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[(offset+i)%len(templates)]
		records = append(records, g.build(q, tpl))
	}
	return records
}

func (g *Generator) build(q catalog.Query, tpl template) catalog.Record {
	price := catalog.PriceFree
	if !tpl.free {
		price = fmt.Sprintf("$%d", 5+g.rng.Intn(36))
	}

	return catalog.Record{
		ID:          idPrefix + uuid.New().String(),
		Name:        fmt.Sprintf(tpl.namePattern, q.City),
		Category:    tpl.category,
		Venue:       tpl.venue,
		Date:        q.DateAt(g.rng.Intn(q.Days())),
		Time:        fmt.Sprintf("%02d:%02d", 9+g.rng.Intn(10), 30*g.rng.Intn(2)),
		Price:       price,
		Description: tpl.description,
		Source:      SourceName,
		City:        q.City,
	}
}
