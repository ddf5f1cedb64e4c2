package keys

// Package keys centralizes store key construction.
// Every key has the shape "<prefix>:<name>:<label>".

import (
	"encoding/base64"
	"strings"
)

// Sep separates the prefix, name and label segments of a key.
const Sep = ":"

// Namespace derives every key of one queue from its prefix and name.
type Namespace struct {
	Prefix string
	Name   string
}

// Root returns the bare queue key, "<prefix>:<name>:".
func (n Namespace) Root() string { return n.Prefix + Sep + n.Name + Sep }

// Key returns the fully-qualified key for label.
func (n Namespace) Key(label string) string { return n.Root() + label }

// Label strips the namespace root from key and returns the trailing label.
// key must have been produced by Key for the same namespace; shorter keys
// yield "".
func (n Namespace) Label(key string) string {
	l := len(n.Prefix) + len(n.Name) + 2*len(Sep)
	if len(key) < l {
		return ""
	}
	return key[l:]
}

// ByName returns the per-job-name index key nested under the by-name label.
func (n Namespace) ByName(byNameLabel, jobName string) string {
	return n.Key(byNameLabel) + Sep + jobName
}

// Table precomputes the keys for the provided labels.
func (n Namespace) Table(labels ...string) map[string]string {
	root := n.Root()
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		out[l] = root + l
	}
	return out
}

// Base64Name encodes the queue name with standard padded base64.
func (n Namespace) Base64Name() string {
	return base64.StdEncoding.EncodeToString([]byte(n.Name))
}

// ClientName is the identifier reported to CLIENT SETNAME. Raw names may hold
// spaces or newlines, which the server rejects there, so the name is encoded.
func (n Namespace) ClientName() string { return n.Prefix + Sep + n.Base64Name() }

// Parse splits a raw key (e.g. "bull:orders:active") into queue name and
// label. The prefix may itself contain the separator; the name may not.
// ok is false if key does not belong to prefix or carries no name segment.
func Parse(prefix, key string) (name, label string, ok bool) {
	head := prefix + Sep
	if !strings.HasPrefix(key, head) {
		return "", "", false
	}
	rest := key[len(head):]
	i := strings.Index(rest, Sep)
	if i <= 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
