package bullq

import (
	"context"
	"sort"
	"strings"

	ikeys "github.com/bullq/bullq-go/internal/keys"
	"github.com/redis/go-redis/v9"
)

// KeyInfo describes one existing key of a queue.
type KeyInfo struct {
	// Resource is the label recovered from the key. Job keys carry the job id here.
	Resource Resource `json:"resource"`
	// Key is the raw store key.
	Key string `json:"key"`
	// Type is the store type reported by TYPE (list, zset, hash, ...).
	Type string `json:"type"`
}

// ScanKeys lists every existing key under this queue's namespace, sorted by key.
// On a cluster client only the node serving the scan is visited.
func (q *QueueBase) ScanKeys(ctx context.Context) ([]KeyInfo, error) {
	rdb := q.Client()
	match := escapeGlob(q.ToKey("")) + "*"

	var found []string
	iter := rdb.Scan(ctx, 0, match, 256).Iterator()
	for iter.Next(ctx) {
		found = append(found, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	sort.Strings(found)

	cmds := make([]*redis.StatusCmd, len(found))
	_, err := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range found {
			cmds[i] = p.Type(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]KeyInfo, 0, len(found))
	for i, k := range found {
		typ := cmds[i].Val()
		if typ == "none" {
			// expired or deleted between SCAN and TYPE
			continue
		}
		out = append(out, KeyInfo{Resource: Resource(q.FromKey(k)), Key: k, Type: typ})
	}
	return out, nil
}

// Snapshot encodes the result of ScanKeys with the configured Encoder.
func (q *QueueBase) Snapshot(ctx context.Context) ([]byte, error) {
	infos, err := q.ScanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []KeyInfo{}
	}
	return q.encoder.Encode(infos)
}

// DecodeSnapshot decodes the output of Snapshot with the configured Encoder.
func (q *QueueBase) DecodeSnapshot(data []byte) ([]KeyInfo, error) {
	var infos []KeyInfo
	if err := q.encoder.Decode(data, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// CompareSnapshot scans the live keys and reports which appeared and which
// disappeared since the saved snapshot. A key whose type changed is listed in both.
func (q *QueueBase) CompareSnapshot(ctx context.Context, saved []byte) (added, removed []KeyInfo, err error) {
	before, err := q.DecodeSnapshot(saved)
	if err != nil {
		return nil, nil, err
	}
	now, err := q.ScanKeys(ctx)
	if err != nil {
		return nil, nil, err
	}
	added, removed = diffKeys(before, now)
	return added, removed, nil
}

func diffKeys(before, after []KeyInfo) (added, removed []KeyInfo) {
	seen := make(map[KeyInfo]struct{}, len(before))
	for _, k := range before {
		seen[k] = struct{}{}
	}
	for _, k := range after {
		if _, ok := seen[k]; ok {
			delete(seen, k)
			continue
		}
		added = append(added, k)
	}
	for _, k := range before {
		if _, ok := seen[k]; ok {
			removed = append(removed, k)
		}
	}
	return added, removed
}

// ParseKey splits a raw store key under prefix into queue name and resource
// label. It returns ok=false if the key does not belong to prefix.
func ParseKey(prefix, key string) (name string, r Resource, ok bool) {
	n, l, ok := ikeys.Parse(prefix, key)
	return n, Resource(l), ok
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globEscaper.Replace(s) }
