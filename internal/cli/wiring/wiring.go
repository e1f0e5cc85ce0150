// Package wiring assembles a session.Engine from a rimecore data
// directory: discovering schemas, attaching their
// processor/segmentor/translator/filter chains, and starting the
// maintenance worker that watches for redeploys (spec.md §4.2, §5),
// generalizing the teacher's CreateEngine (one DuckDB connection built
// from one TargetConfig) into a many-schema, many-store assembly.
package wiring

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rimecore/rimecore/internal/cli/config"
	"github.com/rimecore/rimecore/internal/deploy"
	"github.com/rimecore/rimecore/internal/dict"
	"github.com/rimecore/rimecore/internal/dictmap"
	"github.com/rimecore/rimecore/internal/filter"
	"github.com/rimecore/rimecore/internal/pipeline"
	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/processor"
	"github.com/rimecore/rimecore/internal/schemaconfig"
	"github.com/rimecore/rimecore/internal/segmentor"
	"github.com/rimecore/rimecore/internal/session"
	"github.com/rimecore/rimecore/internal/translator"
	"github.com/rimecore/rimecore/internal/userdb"
)

// EngineSet is everything CreateEngine assembles: the session engine
// plus the dictmap registry and maintenance worker it depends on,
// returned together so a command can shut them down in order.
type EngineSet struct {
	Engine   *session.Engine
	Registry *dictmap.Registry
	Worker   *deploy.Worker
	stores   map[string]*userdb.Store
}

// Close releases every schema's user dictionary. The dictmap handles
// attachSchema opened through Registry are not released here, and no
// session holds or releases them; they stay registered.
func (s *EngineSet) Close() error {
	s.Engine.CleanupAllSessions()
	var firstErr error
	for _, store := range s.stores {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CreateEngine discovers every schema under cfg.DataDir, attaches each
// one, and starts a deploy.Worker watching the same directory for
// rebuilds.
func CreateEngine(cfg *config.Config, logger *slog.Logger) (*EngineSet, error) {
	reg := dictmap.NewRegistry()
	eng := session.NewEngine()
	stores := make(map[string]*userdb.Store)

	ids, err := discoverSchemas(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		binding, store, err := attachSchema(id, cfg.DataDir, cfg.UserDataDir, reg, logger, eng)
		if err != nil {
			return nil, err
		}
		eng.RegisterSchema(binding)
		stores[id] = store
	}

	worker := &deploy.Worker{
		DataDir: cfg.DataDir,
		Logger:  logger,
		Rebuild: func(schemaID string) error { return rebuildSchema(schemaID, cfg.DataDir) },
		Recover: func(task deploy.RecoveryTask) error { return recoverUserDict(task, cfg.UserDataDir, logger) },
	}
	eng.Deploy = worker

	return &EngineSet{Engine: eng, Registry: reg, Worker: worker, stores: stores}, nil
}

// discoverSchemas lists every "<id>.schema.yaml" under dataDir, the
// way internal/deploy.Worker's own fsnotify scan finds schema
// resources, but run once up front at CLI startup rather than on a
// filesystem event.
func discoverSchemas(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("wiring: read data dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".schema.yaml") {
			ids = append(ids, strings.TrimSuffix(name, ".schema.yaml"))
		} else if strings.HasSuffix(name, ".schema.yml") {
			ids = append(ids, strings.TrimSuffix(name, ".schema.yml"))
		}
	}
	return ids, nil
}

// attachSchema builds one schema's SchemaBinding: loads its config,
// opens its shared prism/table handle through reg, opens its user
// dictionary, and wires the processor/segmentor/translator/filter
// chains the way spec.md §4.2 describes schema attach.
func attachSchema(schemaID, dataDir, userDataDir string, reg *dictmap.Registry, logger *slog.Logger, registry translator.SchemaRegistry) (*session.SchemaBinding, *userdb.Store, error) {
	cfgPath := filepath.Join(dataDir, schemaID+".schema.yaml")
	cfg, err := schemaconfig.Load(cfgPath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("wiring: load schema %q: %w", schemaID, err)
	}

	handle, err := reg.Open(dictmap.Paths{
		SchemaID:   schemaID,
		PrismPath:  filepath.Join(dataDir, schemaID+".prism.bin"),
		TablePaths: []string{filepath.Join(dataDir, schemaID+".table.bin")},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wiring: open dictmap handle for %q: %w", schemaID, err)
	}

	if err := os.MkdirAll(userDataDir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("wiring: create user data dir: %w", err)
	}
	dbPath := filepath.Join(userDataDir, schemaID+".userdb.sqlite3")
	store, err := userdb.Open(dbPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wiring: open user dict for %q: %w", schemaID, err)
	}

	dictionary := dict.New(handle.Tables...)

	alphabet := runeSet(cfg.Alphabet)
	delimiters := runeSet(cfg.Delimiters)

	procs := []processor.Processor{
		&processor.ShapeProcessor{},
		&processor.Speller{Alphabet: alphabet, Delimiters: delimiters, MaxCodeLength: cfg.MaxCodeLength},
		&processor.Punctuator{Mappings: runeMappings(cfg.Punctuation)},
		&processor.Selector{PageSize: cfg.PageSize},
		&processor.Navigator{},
		&processor.Editor{},
	}

	segs := []segmentor.Segmentor{
		&segmentor.AbcSegmentor{Alphabet: byteSet(cfg.Alphabet)},
		&segmentor.PunctSegmentor{Keys: byteSet(punctKeys(cfg.Punctuation))},
	}
	for i, prefix := range cfg.AffixPrefixes {
		if i >= len(cfg.AffixSuffixes) {
			break
		}
		segs = append(segs, &segmentor.AffixSegmentor{Prefix: prefix, Suffix: cfg.AffixSuffixes[i], Tag: "reverse"})
	}

	trans := []translator.Translator{
		&translator.TableTranslator{
			Prism:            handle.Prism,
			Dictionary:       dictionary,
			Poet:             cfg.TablePoet,
			ShortWordPenalty: cfg.PoetShortWordPenalty,
		},
		&translator.UserDictTranslator{Prism: handle.Prism, Store: store},
		&translator.PunctTranslator{Mappings: cfg.Punctuation},
		&translator.CodepointTranslator{},
	}
	if registry != nil {
		trans = append(trans, &translator.SchemaListTranslator{Trigger: "schema", Registry: registry})
	}

	binding := &session.SchemaBinding{
		ID:       schemaID,
		Name:     cfg.Name,
		PageSize: cfg.PageSize,
		Pipeline: &pipeline.Pipeline{
			Processors:  processor.NewChain(procs...),
			Segmentors:  segmentor.NewChain(&segmentor.FallbackSegmentor{}, segs...),
			Translators: translator.NewChain(trans...),
			Filters:     filter.NewChain(&filter.Uniquifier{}),
			Logger:      logger,
		},
	}
	return binding, store, nil
}

// BuildSchema recompiles schemaID's table.bin from its source
// dictionary, the manual counterpart to the deploy worker's automatic
// rebuild-on-change.
func BuildSchema(schemaID, dataDir string) error {
	return rebuildSchema(schemaID, dataDir)
}

// rebuildSchema recompiles a schema's table.bin from its source
// dictionary (<id>.dict.txt) against its existing prism, the
// maintenance task spec.md §5 assigns to a changed source file. The
// prism itself is rebuilt by a separate deploy step (spec.md §1 scopes
// the prism compiler out as external tooling); this only recompiles
// the table the prism already indexes.
func rebuildSchema(schemaID, dataDir string) error {
	prismPath := filepath.Join(dataDir, schemaID+".prism.bin")
	p, err := prism.Open(prismPath)
	if err != nil {
		return fmt.Errorf("wiring: rebuild %q: open prism: %w", schemaID, err)
	}
	defer p.Close()

	dictPath := filepath.Join(dataDir, schemaID+".dict.txt")
	f, err := os.Open(dictPath)
	if err != nil {
		return fmt.Errorf("wiring: rebuild %q: open source dict: %w", schemaID, err)
	}
	defer f.Close()

	entries, err := deploy.ParseSourceDict(f)
	if err != nil {
		return fmt.Errorf("wiring: rebuild %q: %w", schemaID, err)
	}

	syllabary := make([]string, p.NumSyllables())
	t, err := deploy.BuildTable(entries, p, syllabary)
	if err != nil {
		return fmt.Errorf("wiring: rebuild %q: %w", schemaID, err)
	}

	tablePath := filepath.Join(dataDir, schemaID+".table.bin")
	if err := t.Save(tablePath); err != nil {
		return fmt.Errorf("wiring: rebuild %q: save table: %w", schemaID, err)
	}
	return nil
}

// recoverUserDict reopens a schema's user dictionary after a failed
// open. The deploy worker runs it for each task queued with
// deploy.Worker.ScheduleRecovery; session.Engine.CreateSession does not
// queue one. Reopening through userdb.Open re-runs
// its goose migrations and lets SQLite's own journal recovery repair
// a half-written transaction.
func recoverUserDict(task deploy.RecoveryTask, userDataDir string, logger *slog.Logger) error {
	path := filepath.Join(userDataDir, task.SchemaID+".userdb.sqlite3")
	store, err := userdb.Open(path, logger)
	if err != nil {
		return fmt.Errorf("wiring: recover user dict %q: %w", task.SchemaID, err)
	}
	return store.Close()
}

func runeSet(s string) map[rune]bool {
	out := make(map[rune]bool, len(s))
	for _, r := range s {
		out[r] = true
	}
	return out
}

func byteSet(s string) map[byte]bool {
	out := make(map[byte]bool, len(s))
	for i := 0; i < len(s); i++ {
		out[s[i]] = true
	}
	return out
}

func punctKeys(m map[string][]string) string {
	var keys strings.Builder
	for k := range m {
		keys.WriteString(k)
	}
	return keys.String()
}

func runeMappings(m map[string][]string) map[rune][]string {
	out := make(map[rune][]string, len(m))
	for k, v := range m {
		if len(k) != 1 {
			continue
		}
		out[rune(k[0])] = v
	}
	return out
}
