package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// DefaultEtcdPrefix is the key prefix read when EtcdOptions.Prefix is empty.
const DefaultEtcdPrefix = "/gameplaytags/"

// EtcdOptions configures the etcd source.
type EtcdOptions struct {
	Endpoints []string

	// Prefix is stripped from each key to get the tag path:
	// "/gameplaytags/Combat.Damage.Fire" -> "Combat.Damage.Fire".
	Prefix string

	DialTimeout time.Duration

	TLS *TLSConfig

	Logger *slog.Logger
}

// Etcd reads the tag universe from the keys under a prefix, in key order.
// Values are ignored, so they can hold descriptions or ownership notes.
//
// Thread-safety: All methods are safe for concurrent use.
type Etcd struct {
	kv      clientv3.KV
	watcher clientv3.Watcher
	client  *clientv3.Client
	prefix  string
	logger  *slog.Logger
}

// NewEtcd connects to the etcd cluster.
func NewEtcd(opts EtcdOptions) (*Etcd, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	}

	tlsConfig, err := opts.TLS.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	clientCfg.TLS = tlsConfig

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	e := NewEtcdFromClient(cli, cli, opts.Prefix, opts.Logger)
	e.client = cli
	return e, nil
}

// NewEtcdFromClient builds the source on existing KV and Watcher
// implementations, typically both a *clientv3.Client. Close does not close
// them.
func NewEtcdFromClient(kv clientv3.KV, watcher clientv3.Watcher, prefix string, logger *slog.Logger) *Etcd {
	if prefix == "" {
		prefix = DefaultEtcdPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Etcd{kv: kv, watcher: watcher, prefix: prefix, logger: logger}
}

// Paths lists the keys under the prefix.
func (e *Etcd) Paths(ctx context.Context) ([]string, error) {
	resp, err := e.kv.Get(ctx, e.prefix,
		clientv3.WithPrefix(),
		clientv3.WithKeysOnly(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags under %s: %w", e.prefix, err)
	}

	raw := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		raw = append(raw, strings.TrimPrefix(string(kv.Key), e.prefix))
	}

	return canonical(raw, e.logger, "etcd:"+e.prefix), nil
}

// Watch calls r.Reload after every batch of changes under the prefix. It
// blocks until ctx is cancelled, returning nil, or the watch fails.
// Reload errors are logged and do not stop the watch.
func (e *Etcd) Watch(ctx context.Context, r Reloader) error {
	if e.watcher == nil {
		return fmt.Errorf("etcd source has no watcher")
	}

	watchChan := e.watcher.Watch(ctx, e.prefix, clientv3.WithPrefix())

	for {
		select {
		case <-ctx.Done():
			return nil
		case watchResp, ok := <-watchChan:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("etcd watch on %s closed", e.prefix)
			}
			if err := watchResp.Err(); err != nil {
				return fmt.Errorf("etcd watch on %s failed: %w", e.prefix, err)
			}
			if len(watchResp.Events) == 0 {
				continue
			}

			e.logger.Debug("tag keys changed",
				"prefix", e.prefix,
				"events", len(watchResp.Events))
			reload(ctx, r, e.logger, "etcd:"+e.prefix)
		}
	}
}

// Close closes the etcd client created by NewEtcd.
func (e *Etcd) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
