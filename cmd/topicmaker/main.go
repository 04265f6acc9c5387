package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/niksmo/catalog-review/config"
	"github.com/niksmo/catalog-review/internal/adapter"
	"github.com/niksmo/catalog-review/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	deletePolicy      = "delete"
	browseRetention   = 7 * 24 * time.Hour
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	if !cfg.Broker.Enabled() {
		fmt.Println("broker.seed_brokers is empty, nothing to create")
		return
	}

	cl := createClient(cfg)
	defer cl.Close()

	printStart(cfg)
	defer printComplete(time.Now())

	// browse events expire after a week, catalog changes are retained
	err := errors.Join(
		makeTopics(
			sigCtx, cl, deletePolicy, browseRetention,
			cfg.Broker.Topics.BrowseEvents,
		),
		makeTopics(
			sigCtx, cl, deletePolicy, -1,
			cfg.Broker.Topics.CatalogChanges,
		),
	)
	if err != nil {
		printFail(err)
	}
}

func createClient(cfg config.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}

	tlsPaths := cfg.Broker.TLS
	if tlsPaths.Enabled() {
		tlsCfg, err := adapter.MakeTLSConfig(
			tlsPaths.CA, tlsPaths.Cert, tlsPaths.Key,
		)
		if err != nil {
			panic(err)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context,
	cl *kadm.Client,
	cleanupPolicy string,
	retention time.Duration,
	topics ...string,
) error {
	var (
		minISR      = "2"
		retentionMs = "-1"
	)
	if retention > 0 {
		retentionMs = strconv.FormatInt(retention.Milliseconds(), 10)
	}

	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
		"retention.ms":        &retentionMs,
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		config,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		err := res.Err
		if err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(cfg config.Config) {
	fmt.Printf(`initializing topics...
	- %q
	- %q

`,
		cfg.Broker.Topics.BrowseEvents,
		cfg.Broker.Topics.CatalogChanges,
	)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
