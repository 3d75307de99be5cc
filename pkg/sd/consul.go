// Package sd registers addsvc instances in Consul and discovers them again
// for the router.
package sd

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	consulsd "github.com/go-kit/kit/sd/consul"
	"github.com/hashicorp/consul/api"
)

const (
	checkInterval   = 10 * time.Second
	checkTimeout    = time.Second
	deregisterAfter = time.Minute
)

// NewClient returns a go-kit Consul client talking to the agent at addr.
func NewClient(addr string) (consulsd.Client, error) {
	cfg := api.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	c, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client %s: %w", addr, err)
	}
	return consulsd.NewClient(c), nil
}

// Registration describes one instance of name listening on host:port. The
// agent polls statusURL to decide whether the instance is passing.
func Registration(name, host string, port int, statusURL string, tags []string) *api.AgentServiceRegistration {
	return &api.AgentServiceRegistration{
		ID:      name + "-" + net.JoinHostPort(host, strconv.Itoa(port)),
		Name:    name,
		Tags:    tags,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:                           statusURL,
			Interval:                       checkInterval.String(),
			Timeout:                        checkTimeout.String(),
			DeregisterCriticalServiceAfter: deregisterAfter.String(),
		},
	}
}

// NewRegistrar returns a registrar for reg. Callers Register on start and
// Deregister on shutdown.
func NewRegistrar(client consulsd.Client, reg *api.AgentServiceRegistration, logger log.Logger) *consulsd.Registrar {
	return consulsd.NewRegistrar(client, reg, log.With(logger, "component", "registrar"))
}

// NewInstancer watches the passing instances of name carrying all of tags.
func NewInstancer(client consulsd.Client, name string, tags []string, logger log.Logger) *consulsd.Instancer {
	return consulsd.NewInstancer(client, log.With(logger, "component", "instancer"), name, tags, true)
}
