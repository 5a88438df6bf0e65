// Command dtreebench is a thin CLI harness over the compression tree
// store. It owns argument parsing, settings, and result reporting; the
// core algorithms it drives live entirely in package dtree.
package main

import (
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/bergfi/dtree/config"
	"github.com/bergfi/dtree/dtree"
)

var (
	app = kingpin.New("dtreebench", "Concurrency and probing benchmark harness for the dtree compression store.")

	scale     = app.Flag("scale", "table size, as 2^scale slots").Short('s').Default("20").Uint()
	threads   = app.Flag("threads", "number of concurrent inserting goroutines").Short('t').Default("1").Int()
	inserts   = app.Flag("inserts", "number of vectors each thread inserts").Short('i').Default("1000").Int()
	testName  = app.Flag("test", "named test scenario, e.g. dtree.sr").Short('T').Default("dtree.sr").String()
	dupRatio  = app.Flag("dupratio", "fraction of inserts that repeat an earlier vector").Short('d').Default("0").Float64()
	collRatio = app.Flag("collratio", "fraction by which the word alphabet is shrunk, to induce pair collisions").Short('c').Default("0").Float64()

	selector = app.Arg("selector", "positional test selector (e.g. dtree.sr, dtree.sl)").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log := logrus.StandardLogger()
	settings := config.Default()
	settings.Scale = *scale
	settings.Threads = *threads
	settings.Inserts = *inserts
	settings.TestName = *testName
	settings.DupRatio = *dupRatio
	settings.CollRatio = *collRatio
	if *selector != "" {
		settings.TestName = *selector
	}

	if err := run(log, settings); err != nil {
		log.WithError(err).Fatal("dtreebench run failed")
	}
}

func run(log *logrus.Logger, settings config.Settings) error {
	variant := dtree.SeparateRoot
	if settings.Variant == "single_level" {
		variant = dtree.SingleLevel
	}

	store := dtree.New(dtree.Config{
		Scale:      settings.Scale,
		Variant:    variant,
		Discipline: settings.DisciplineValue(),
		Logger:     log,
	})
	defer store.Close()

	start := time.Now()
	vectors := generateVectors(settings)
	freshCount := runInserts(store, settings, vectors)
	elapsed := time.Since(start)

	stats := store.Stats()
	probes := store.ProbeStats()

	log.WithFields(logrus.Fields{
		"test":        settings.TestName,
		"threads":     settings.Threads,
		"inserts":     humanize.Comma(int64(settings.Threads * settings.Inserts)),
		"fresh":       humanize.Comma(int64(freshCount)),
		"elapsed":     elapsed.String(),
		"rootPop":     humanize.Comma(int64(stats.Root.Population)),
		"dataPop":     humanize.Comma(int64(stats.Data.Population)),
		"maxProbeLen": probes.Data.MaxProbeLen,
	}).Info("dtreebench complete")

	return nil
}

func generateVectors(settings config.Settings) [][]uint32 {
	rng := rand.New(rand.NewSource(1))
	alphabet := uint32(1 << 20)
	if settings.CollRatio > 0 {
		alphabet = uint32(float64(alphabet) * (1 - settings.CollRatio))
		if alphabet == 0 {
			alphabet = 1
		}
	}

	vectors := make([][]uint32, settings.Inserts)
	for i := range vectors {
		if i > 0 && settings.DupRatio > 0 && rng.Float64() < settings.DupRatio {
			vectors[i] = vectors[rng.Intn(i)]
			continue
		}
		v := make([]uint32, 8+rng.Intn(24))
		for j := range v {
			v[j] = rng.Uint32() % alphabet
		}
		vectors[i] = v
	}
	return vectors
}

func runInserts(store *dtree.Store, settings config.Settings, vectors [][]uint32) int64 {
	var freshCount int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(settings.Threads)
	for t := 0; t < settings.Threads; t++ {
		go func() {
			defer wg.Done()
			local := int64(0)
			for _, v := range vectors {
				if store.Insert(v).Fresh {
					local++
				}
			}
			mu.Lock()
			freshCount += local
			mu.Unlock()
		}()
	}
	wg.Wait()
	return freshCount
}
