package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/hexworld/hexcore/internal/config"
	"github.com/hexworld/hexcore/internal/core/event"
	"github.com/hexworld/hexcore/internal/data"
	hx "github.com/hexworld/hexcore/internal/hex"
	"github.com/hexworld/hexcore/internal/persist"
	"github.com/hexworld/hexcore/internal/scripting"
	"github.com/hexworld/hexcore/internal/terrain"
	"github.com/hexworld/hexcore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var numbers = message.NewPrinter(language.English)

func printBanner(worldName string, seed uint64) {
	fmt.Println()
	color.Cyan.Println("  ┌───────────────────────────────────────────┐")
	color.Cyan.Print("  │")
	fmt.Print("              hexworld  v0.1.0             ")
	color.Cyan.Println("│")
	color.Cyan.Println("  └───────────────────────────────────────────┘")
	fmt.Println()
	fmt.Printf("  %s %s %s\n\n", color.Bold.Sprint("world:"), worldName, color.Gray.Sprintf("(seed %d)", seed))
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	color.Yellow.Printf("  ── %s %s\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := numbers.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s %s %s\n", label, color.Gray.Sprint(strings.Repeat("·", dotsLen)), color.Green.Sprint(numStr))
}

func printDone(elapsed time.Duration) {
	fmt.Println()
	color.Style{color.FgGreen, color.OpBold}.Printf("  done in %s\n\n", elapsed.Round(time.Millisecond))
}

// ── Run ────────────────────────────────────────────────────────────

func run() error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	planes, err := loadPlanes(cfg)
	if err != nil {
		return err
	}

	printBanner(cfg.World.Name, cfg.World.Seed)

	var shapers []terrain.CellShaper
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("init lua: %w", err)
		}
		defer engine.Close()
		if engine.HasShapeHook() {
			shapers = append(shapers, engine)
		}
	}

	bus := event.NewBus()
	event.Subscribe(bus, func(e event.PlaneGenerated) {
		log.Info("plane generated",
			zap.Int16("plane", e.Plane),
			zap.String("digest", hex.EncodeToString(e.Digest[:8])),
		)
	})
	event.Subscribe(bus, func(e event.CellsRevealed) {
		log.Debug("cells revealed", zap.Int16("plane", e.Plane), zap.Int("count", e.Count))
	})
	state := world.NewState(cfg.World.MaxOccupants, bus, log)

	printSection("terrain")
	for _, info := range planes.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		plane, stats, err := buildPlane(cfg, planes, info, shapers, log)
		if err != nil {
			return err
		}
		if err := state.AddPlane(plane); err != nil {
			return err
		}
		if info.Revealed {
			if _, err := state.RevealPlane(plane.ID, 0xff); err != nil {
				return err
			}
		}
		if err := state.PublishPlane(plane.ID); err != nil {
			return err
		}
		printStat(fmt.Sprintf("%s cells", plane.Name), stats.Cells)
		printStat(fmt.Sprintf("%s land", plane.Name), stats.Land)
		printStat(fmt.Sprintf("%s rivers", plane.Name), stats.Rivers)
	}
	state.Flush()

	if cfg.Database.Enabled {
		printSection("storage")
		n, err := savePlanes(ctx, cfg, state, log)
		if err != nil {
			return err
		}
		printStat("chunks written", n)
	}

	printDone(time.Since(start))
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return config.Defaults(), nil
	}
	return cfg, err
}

func loadPlanes(cfg *config.Config) (*data.PlaneTable, error) {
	if cfg.World.PlanesFile == "" {
		return data.DefaultPlaneTable(cfg.World.Name), nil
	}
	t, err := data.LoadPlaneTable(cfg.World.PlanesFile)
	if err != nil {
		return nil, fmt.Errorf("load planes: %w", err)
	}
	return t, nil
}

// buildPlane generates one plane. Chunk counts default to the world's and a
// heightmap, when present, acts as a floor under the generated relief.
func buildPlane(cfg *config.Config, table *data.PlaneTable, info *data.PlaneInfo,
	shapers []terrain.CellShaper, log *zap.Logger) (*world.Plane, terrain.Stats, error) {
	chunksX, chunksY := cfg.World.ChunksX, cfg.World.ChunksY
	if info.ChunksX > 0 {
		chunksX = info.ChunksX
	}
	if info.ChunksY > 0 {
		chunksY = info.ChunksY
	}
	m := terrain.NewMap(cfg.World.ChunkSize, chunksX, chunksY)

	seed := cfg.World.Seed + info.SeedOffset
	params := cfg.Terrain.Params(seed)
	if info.NoRivers {
		params.RiverCount = 0
	}

	planeShapers := shapers
	if path := table.HeightmapPath(info); path != "" {
		hm, err := data.LoadHeightmap(path)
		if err != nil {
			return nil, terrain.Stats{}, err
		}
		planeShapers = append([]terrain.CellShaper{heightmapShaper(hm)}, shapers...)
	}

	stats, err := terrain.NewGenerator(params, log.With(zap.Int16("plane", info.ID)), planeShapers...).Generate(m)
	if err != nil {
		return nil, terrain.Stats{}, fmt.Errorf("generate plane %d: %w", info.ID, err)
	}
	return &world.Plane{ID: info.ID, Name: info.Name, Seed: seed, Map: m}, stats, nil
}

func heightmapShaper(hm *data.Heightmap) terrain.CellShaper {
	return terrain.ShaperFunc(func(c hx.GridCoord, cell *terrain.Cell) error {
		cell.Elevation = max(cell.Elevation, hm.At(c.X, c.Y))
		return nil
	})
}

func savePlanes(ctx context.Context, cfg *config.Config, state *world.State, log *zap.Logger) (int, error) {
	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return 0, err
	}

	codec, err := persist.NewBlobCodec()
	if err != nil {
		return 0, err
	}
	defer codec.Close()

	store := persist.NewPlaneStore(persist.NewChunkRepo(db), codec, log)
	worldID := persist.WorldID(cfg.World.Name)
	stored, err := store.Stored(ctx, worldID)
	if err != nil {
		return 0, fmt.Errorf("list stored planes: %w", err)
	}
	for _, m := range stored {
		log.Info("replacing stored plane",
			zap.Int16("plane", m.PlaneID),
			zap.String("name", m.Name),
			zap.Time("updated_at", m.UpdatedAt),
		)
	}
	total := 0
	for _, p := range state.Planes() {
		n, err := store.Save(ctx, persist.PlaneRef{
			WorldID: worldID,
			PlaneID: p.ID,
			Name:    p.Name,
			Seed:    p.Seed,
		}, p.Map)
		if err != nil {
			return total, fmt.Errorf("save plane %d: %w", p.ID, err)
		}
		total += n
	}
	return total, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
