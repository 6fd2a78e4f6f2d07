package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"warboard/pkg/screenshot"
)

// Re-runs extraction over screenshot pairs that failed during submission.
// Pairs are matched by the counter suffix the server assigns when it saves
// them (war_error<N>.png / league_error<N>.png). Recovered pairs can be moved
// out of the fails directory so they are reported only once.

var (
	warFailRE    = regexp.MustCompile(`^war_error(\d+)\.png$`)
	leagueFailRE = regexp.MustCompile(`^league_error(\d+)\.png$`)
)

// global flags (parsed in main)
var (
	verbose       bool
	moveRecovered bool
)

func main() {
	dirFlag := flag.String("dir", "fails", "directory holding failed screenshot pairs")
	watch := flag.Bool("watch", false, "Watch directory for new pairs")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-pair logging")
	flag.BoolVar(&moveRecovered, "move", false, "Move recovered pairs to <dir>/recovered")
	flag.Parse()

	pairs := listPairs(*dirFlag)
	log.Printf("Scanning %d pairs (workers=%d)", len(pairs), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, pairs, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// listPairs returns the counter suffixes for which both halves of a pair are
// present on disk.
func listPairs(dir string) []int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := warFailRE.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, leagueName(n))); err != nil {
			logV("SKIP pair %d: league half missing", n)
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func warName(n int) string    { return "war_error" + strconv.Itoa(n) + ".png" }
func leagueName(n int) string { return "league_error" + strconv.Itoa(n) + ".png" }

func watchDirectory(dir string, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	pairCh := make(chan int, 256)
	go func() {
		// simple debounce map of pending pairs
		pending := map[int]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(pairCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					// the league half is written second, so key off it
					name := filepath.Base(ev.Name)
					m := leagueFailRE.FindStringSubmatch(name)
					if m == nil {
						continue
					}
					if n, err := strconv.Atoi(m[1]); err == nil {
						pending[n] = time.Now()
					}
				}
			case <-ticker.C:
				now := time.Now()
				for n, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						pairCh <- n
						delete(pending, n)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(pairCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(dir, nil, workers, pairCh)
	// block forever (Ctrl+C to exit)
	select {}
}

// worker pool orchestrator
func runWorkerPool(dir string, initial []int, workers int, extraCh ...<-chan int) {
	pairCh := make(chan int, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range pairCh {
				retryPair(dir, n)
			}
		}()
	}
	go func() {
		for _, n := range initial {
			pairCh <- n
		}
		for _, ch := range extraCh {
			go func(c <-chan int) {
				for n := range c {
					pairCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(pairCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// retryPair re-runs both extractors over one saved pair and reports the
// outcome.
func retryPair(dir string, n int) {
	war, err := os.ReadFile(filepath.Join(dir, warName(n)))
	if err != nil {
		log.Printf("ERROR read %s: %v", warName(n), err)
		return
	}
	league, err := os.ReadFile(filepath.Join(dir, leagueName(n)))
	if err != nil {
		log.Printf("ERROR read %s: %v", leagueName(n), err)
		return
	}

	warFields, warErr := screenshot.ExtractWar(war)
	leagueFields, leagueErr := screenshot.ExtractLeague(league)
	if warErr != nil || leagueErr != nil {
		logV("STILL FAILING pair %d: war=%v league=%v", n, warErr, leagueErr)
		return
	}

	ok, total := fieldTally(warFields, leagueFields)
	log.Printf("RECOVERED pair %d: %d/%d fields parsed date=%s league=%s",
		n, ok, total, fmtDate(warFields.Date), fmtText(leagueFields.League))
	if moveRecovered {
		if err := movePair(dir, n); err != nil {
			log.Printf("WARN move pair %d: %v", n, err)
		}
	}
}

func fieldTally(war *screenshot.WarFields, league *screenshot.LeagueFields) (ok, total int) {
	statuses := []screenshot.Status{
		war.PointsScored.Status, war.OpponentServer.Status, war.OpponentGuild.Status,
		war.OpponentScored.Status, war.Date.Status,
		league.League.Status, league.Division.Status, league.TotalPoints.Status,
	}
	for _, s := range statuses {
		total++
		if s == screenshot.StatusOK {
			ok++
		}
	}
	return ok, total
}

func fmtDate(f screenshot.DateField) string {
	if f.Status != screenshot.StatusOK {
		return "?"
	}
	return f.Value.Format("2006-01-02")
}

func fmtText(f screenshot.TextField) string {
	if f.Status != screenshot.StatusOK {
		return "?"
	}
	return f.Value
}

func movePair(dir string, n int) error {
	recovered := filepath.Join(dir, "recovered")
	if err := os.MkdirAll(recovered, 0o755); err != nil {
		return err
	}
	for _, name := range []string{warName(n), leagueName(n)} {
		if err := os.Rename(filepath.Join(dir, name), filepath.Join(recovered, name)); err != nil {
			return err
		}
	}
	return nil
}
