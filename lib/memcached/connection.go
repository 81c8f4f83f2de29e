package memcached

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/lib/check"
	"github.com/ValentinKolb/mcmock/lib/result"
)

// Server is a registered connection descriptor. No socket is ever opened.
type Server struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Weight int    `json:"weight,omitempty"`
}

// Addr returns "host:port".
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AddServer registers a server. The host must not be empty, the port must be
// positive and the weight must not be negative.
func (c *Client) AddServer(host string, port, weight int) bool {
	defer c.trace("addServer", map[string]any{"host": host, "port": port, "weight": weight})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.require(result.ResHostLookupFailure, check.Server(host, port, weight)) {
		return false
	}
	c.servers = append(c.servers, Server{Host: host, Port: port, Weight: weight})
	c.succeed()
	return true
}

// AddServers registers several servers. Nothing is registered unless every
// server is valid.
func (c *Client) AddServers(servers []Server) bool {
	defer c.trace("addServers", map[string]any{"servers": servers})()
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range servers {
		if !c.require(result.ResHostLookupFailure, check.Server(s.Host, s.Port, s.Weight)) {
			return false
		}
	}
	c.servers = append(c.servers, servers...)
	c.succeed()
	return true
}

// ServerList returns the registered servers. Weights are not reported.
func (c *Client) ServerList() []Server {
	defer c.trace("getServerList", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Server, len(c.servers))
	for i, s := range c.servers {
		out[i] = Server{Host: s.Host, Port: s.Port}
	}
	c.succeed()
	return out
}

// IsPersistent reports whether the client was created with a persistent id.
func (c *Client) IsPersistent() bool {
	defer c.trace("isPersistent", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeed()
	return c.persistent
}

// IsPristine always reports false, clients are never handed out fresh from a
// persistent pool.
func (c *Client) IsPristine() bool {
	defer c.trace("isPristine", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeed()
	return false
}

// Quit drops all servers. The cached data is kept.
func (c *Client) Quit() bool {
	defer c.trace("quit", nil)()
	return c.dropServers()
}

// ResetServerList drops all servers. The cached data is kept.
func (c *Client) ResetServerList() bool {
	defer c.trace("resetServerList", nil)()
	return c.dropServers()
}

func (c *Client) dropServers() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.servers = nil
	c.succeed()
	return true
}
