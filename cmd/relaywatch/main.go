// Command relaywatch follows one package as a mover would: it replays a
// recorded track, keeps a live session fed from the change feed and accepts
// "pickup" and "dropoff" on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"relay/internal/adapters/in/location"
	"relay/internal/adapters/in/nsqfeed"
	"relay/internal/adapters/out/relayapi"
	"relay/internal/core/application/session"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
)

type watchConfig struct {
	BaseURL        string
	PackageID      kernel.UUID
	UserID         kernel.UUID
	Token          string
	TrackFile      string
	Interval       time.Duration
	NSQDAddress    string
	LookupdAddress string
}

func loadWatchConfig() (watchConfig, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix("relaywatch")
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:8082")
	v.SetDefault("interval", 2*time.Second)
	v.SetDefault("nsqd_address", "localhost:4150")
	v.SetDefault("lookupd_address", "")

	packageID, pkgErr := kernel.UUIDFromString(v.GetString("package_id"))
	userID, userErr := kernel.UUIDFromString(v.GetString("user_id"))
	if err := errors.Join(pkgErr, userErr); err != nil {
		return watchConfig{}, err
	}

	cfg := watchConfig{
		BaseURL:        v.GetString("base_url"),
		PackageID:      packageID,
		UserID:         userID,
		Token:          v.GetString("token"),
		TrackFile:      v.GetString("track_file"),
		Interval:       v.GetDuration("interval"),
		NSQDAddress:    v.GetString("nsqd_address"),
		LookupdAddress: v.GetString("lookupd_address"),
	}
	if cfg.Token == "" || cfg.TrackFile == "" {
		return watchConfig{}, errors.New("RELAYWATCH_TOKEN and RELAYWATCH_TRACK_FILE are required")
	}
	return cfg, nil
}

func main() {
	cfg, err := loadWatchConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	track, err := readTrack(cfg.TrackFile)
	if err != nil {
		log.Fatalf("Error reading track: %v", err)
	}

	client := relayapi.NewClient(relayapi.Config{BaseURL: cfg.BaseURL, Token: cfg.Token})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(cfg.PackageID, cfg.UserID,
		location.NewReplaySource(track, cfg.Interval),
		client,
		session.WithLogger(logger),
		session.WithUpdateHandler(printView),
	)
	if err = s.Start(ctx); err != nil {
		log.Fatalf("Error starting session: %v", err)
	}
	defer s.Stop()

	subscriber := nsqfeed.NewSubscriber(nsqfeed.Config{
		NSQDAddress:    cfg.NSQDAddress,
		LookupdAddress: cfg.LookupdAddress,
		Channel:        fmt.Sprintf("relaywatch-%s#ephemeral", cfg.UserID),
	}, nsqfeed.NewHandler(s, logger), logger)
	if err = attach(ctx, subscriber, client, s, logger); err != nil {
		log.Fatalf("Error subscribing to change feed: %v", err)
	}
	defer subscriber.Stop()

	go readCommands(ctx, s, logger)

	<-ctx.Done()
}

func readTrack(path string) ([]kernel.GeoPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return location.LoadTrack(f)
}

type changeFeed interface {
	Start() error
}

type snapshotLoader interface {
	GetPackage(ctx context.Context, packageID kernel.UUID) (relayapi.Snapshot, error)
}

// attach subscribes to the change feed, then seeds s from the stored snapshot.
// The ephemeral channel only sees messages published after it exists, so it
// must be created before the snapshot is read. A failed seed is logged; the
// feed fills the session in on the next change.
func attach(ctx context.Context, feed changeFeed, loader snapshotLoader, s *session.Session, logger *slog.Logger) error {
	if err := feed.Start(); err != nil {
		return err
	}
	if err := seed(ctx, loader, s); err != nil {
		logger.Warn("initial snapshot not loaded", "error", err)
	}
	return nil
}

// seed loads the stored snapshot so the session does not wait for the next
// change to know the package. Feed messages that arrived first win: the
// session drops older package versions and added records it already has.
func seed(ctx context.Context, loader snapshotLoader, s *session.Session) error {
	snapshot, err := loader.GetPackage(ctx, s.PackageID())
	if err != nil {
		return err
	}

	changes := make([]transit.RecordChange, 0, len(snapshot.Records))
	for _, r := range snapshot.Records {
		changes = append(changes, transit.RecordChange{Type: transit.Added, Key: r.Key(), Record: r})
	}
	return errors.Join(s.ApplyPackage(snapshot.Package), s.ApplyRecordChanges(changes))
}

func readCommands(ctx context.Context, s *session.Session, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var (
			reward services.Reward
			err    error
		)
		switch strings.TrimSpace(scanner.Text()) {
		case "pickup":
			reward, err = s.RequestPickup(ctx)
		case "dropoff":
			reward, err = s.RequestDropoff(ctx)
		case "":
			continue
		default:
			fmt.Println("commands: pickup, dropoff")
			continue
		}

		if err != nil {
			logger.Warn("request failed", "error", err)
			continue
		}
		printReward(reward)
	}
}

func printView(v session.View) {
	fmt.Println(formatView(v))
}

func formatView(v session.View) string {
	status := "unknown"
	if v.Package != nil {
		status = v.Package.Status().String()
	}

	line := fmt.Sprintf("status=%s eligibility=%s records=%d", status, v.Eligibility, len(v.Records))
	if v.Progress != nil {
		line += fmt.Sprintf(" progress=%.1f%% remaining=%.0fm eta=%s",
			v.Progress.Percent*100, v.Progress.Remaining, v.Progress.TimeRemaining.Round(time.Minute))
	}
	if v.InFlight {
		line += " (request in flight)"
	}
	return line
}

func printReward(r services.Reward) {
	line := fmt.Sprintf("credits earned %s, balance %s", r.CreditsEarned.StringFixed(2), r.NewBalance.StringFixed(2))
	if r.DeliveryBonus != nil {
		line += fmt.Sprintf(", delivery bonus %s", r.DeliveryBonus.StringFixed(2))
	}
	if r.Delivered {
		line += ", delivered"
	}
	fmt.Println(line)
}
