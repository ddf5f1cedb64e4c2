package bullq

// Resource labels a queue-internal store resource. Every resource maps to the
// key "<prefix>:<name>:<resource>".
// Use the exported constants instead of raw strings to avoid typos.
type Resource string

const (
	// ResourceQueue is the bare queue key, "<prefix>:<name>:".
	ResourceQueue        Resource = ""
	ResourceActive       Resource = "active"
	ResourceWait         Resource = "wait"
	ResourceWaiting      Resource = "waiting"
	ResourcePaused       Resource = "paused"
	ResourceResumed      Resource = "resumed"
	ResourceID           Resource = "id"
	ResourceDelayed      Resource = "delayed"
	ResourcePriority     Resource = "priority"
	ResourceStalledCheck Resource = "stalled-check"
	ResourceCompleted    Resource = "completed"
	ResourceFailed       Resource = "failed"
	ResourceStalled      Resource = "stalled"
	ResourceRepeat       Resource = "repeat"
	ResourceLimiter      Resource = "limiter"
	ResourceDrained      Resource = "drained"
	ResourceProgress     Resource = "progress"
	ResourceMeta         Resource = "meta"
	ResourceEvents       Resource = "events"
	ResourceDelay        Resource = "delay"
	// ResourceByName roots the per-job-name indexes, see QueueBase.ByNameKey.
	ResourceByName Resource = "by-name"
)

// AllResources lists every resource whose key is precomputed by a QueueBase.
var AllResources = []Resource{
	ResourceQueue, ResourceActive, ResourceWait, ResourceWaiting, ResourcePaused,
	ResourceResumed, ResourceID, ResourceDelayed, ResourcePriority, ResourceStalledCheck,
	ResourceCompleted, ResourceFailed, ResourceStalled, ResourceRepeat, ResourceLimiter,
	ResourceDrained, ResourceProgress, ResourceMeta, ResourceEvents, ResourceDelay,
	ResourceByName,
}

var resourceSet = func() map[string]Resource {
	m := make(map[string]Resource, len(AllResources))
	for _, r := range AllResources {
		m[string(r)] = r
	}
	return m
}()

// String returns the raw string value of the resource.
func (r Resource) String() string { return string(r) }

// ParseResource converts a string into a Resource, returning an error for unknown values.
func ParseResource(s string) (Resource, error) {
	r, ok := resourceSet[s]
	if !ok {
		return "", ErrUnknownResource
	}
	return r, nil
}

func resourceLabels() []string {
	out := make([]string, len(AllResources))
	for i, r := range AllResources {
		out[i] = string(r)
	}
	return out
}
