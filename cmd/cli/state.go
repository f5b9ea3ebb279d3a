package cli

import (
	"fmt"
	"sync"

	core "governedchain/core"
)

// noopCaller is the CLI's stand-in for the host's inter-contract call
// primitive (spec.md §1 Non-goals): it prints the dispatch and returns a
// fresh call id without delivering any callback, since there is no real
// host in a command-line session; `workflow deliver` supplies the result.
type noopCaller struct {
	mu     sync.Mutex
	nextID uint64
}

func (c *noopCaller) Call(receiver core.Address, method string, gas uint64, deposit core.Value, args map[string]core.Value) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	fmt.Printf("[external-call] -> %s.%s (gas=%d)\n", receiver.Short(), method, gas)
	return c.nextID, nil
}

var (
	daoState   *core.DAO
	daoStateMu sync.Mutex
)

// activeDAO lazily constructs the single in-process DAO the CLI operates
// on, matching the engine's single-threaded, single-state-struct model
// (spec.md §9 "Global mutable state").
func activeDAO() *core.DAO {
	daoStateMu.Lock()
	defer daoStateMu.Unlock()
	if daoState == nil {
		daoState = core.New(core.ModuleAddress("dao"), &noopCaller{})
	}
	return daoState
}
