// Package fetch implements the transport side of the harvesting engine:
// HTTP and headless fetchers, the user-agent pool, proxy sourcing, and
// per-domain rate limiting.
package fetch

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"regexp"
	"strings"
)

// agentPattern matches the common desktop/mobile browser user-agent shape.
// Lines that do not match are dropped at load time so every agent handed
// out is plausible.
var agentPattern = regexp.MustCompile(`^Mozilla/\d+\.\d+ \((Windows|Macintosh|iPhone|iPad|Linux|X11); .+\) AppleWebKit/\d+\.\d+ .*\(KHTML, like Gecko\).*`)

// defaultAgents backs the pool when no user-agents file is configured.
var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 Edg/122.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// AgentPool hands out user-agent strings validated at load time.
type AgentPool struct {
	agents []string
}

// NewAgentPool builds a pool from the given agents, keeping only those
// matching the expected shape.
func NewAgentPool(agents []string) *AgentPool {
	valid := make([]string, 0, len(agents))
	for _, a := range agents {
		a = strings.TrimSpace(a)
		if a != "" && agentPattern.MatchString(a) {
			valid = append(valid, a)
		}
	}
	if len(valid) == 0 {
		valid = append(valid, defaultAgents...)
	}
	return &AgentPool{agents: valid}
}

// LoadAgentPool reads one user-agent per line from path. Invalid lines are
// skipped; an unreadable file is an error.
func LoadAgentPool(path string) (*AgentPool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open user agents file: %w", err)
	}
	defer f.Close()

	var agents []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		agents = append(agents, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read user agents file: %w", err)
	}
	return NewAgentPool(agents), nil
}

// DefaultAgentPool returns a pool backed by the built-in agents.
func DefaultAgentPool() *AgentPool {
	return NewAgentPool(nil)
}

// Random returns one agent from the pool.
func (p *AgentPool) Random() string {
	return p.agents[rand.N(len(p.agents))]
}

// Size returns how many agents survived validation.
func (p *AgentPool) Size() int { return len(p.agents) }
