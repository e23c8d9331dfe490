package opt

import "sync"

type key struct {
	Tenant    string
	NetworkID string
	Algo      string
}

var (
	mu    sync.Mutex
	store = map[key]Result{}
)

// RecordRun keeps the latest result per (tenant, network, algorithm) for the
// admin run-metrics endpoint.
func RecordRun(tenant, networkID, algo string, r Result) {
	mu.Lock()
	store[key{Tenant: tenant, NetworkID: networkID, Algo: algo}] = r
	mu.Unlock()
}

// RunsFor returns the recorded results for a network, keyed by algorithm.
func RunsFor(tenant, networkID string) map[string]Result {
	mu.Lock()
	defer mu.Unlock()
	out := map[string]Result{}
	for k, v := range store {
		if k.Tenant == tenant && k.NetworkID == networkID {
			out[k.Algo] = v
		}
	}
	return out
}
