// Package registry registers the service with consul for discovery.
package registry

import (
	"fmt"
	"net"
	"strconv"
	"time"

	consulapi "github.com/hashicorp/consul/api"
)

// Config describes how the service announces itself.
type Config struct {
	Address     string        `env:"ADDR"`
	ServiceName string        `env:"SERVICE_NAME"     envDefault:"footprint-service"`
	ServiceHost string        `env:"SERVICE_HOST"     envDefault:"localhost"`
	CheckPath   string        `env:"CHECK_PATH"       envDefault:"/healthz"`
	Interval    time.Duration `env:"CHECK_INTERVAL"   envDefault:"10s"`
	Deregister  time.Duration `env:"DEREGISTER_AFTER" envDefault:"1m"`
}

// Enabled reports whether a consul agent address was configured.
func (c Config) Enabled() bool {
	return c.Address != ""
}

// ServiceAgent is the part of the consul agent API used for registration.
type ServiceAgent interface {
	ServiceRegister(service *consulapi.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

// ConsulRegistry registers and deregisters one service instance.
type ConsulRegistry struct {
	agent     ServiceAgent
	cfg       Config
	serviceID string
}

// NewConsulRegistry connects to the configured consul agent.
func NewConsulRegistry(cfg Config) (*ConsulRegistry, error) {
	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = cfg.Address

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return NewConsulRegistryWithAgent(client.Agent(), cfg), nil
}

// NewConsulRegistryWithAgent builds a registry on top of an existing agent.
func NewConsulRegistryWithAgent(agent ServiceAgent, cfg Config) *ConsulRegistry {
	return &ConsulRegistry{agent: agent, cfg: cfg}
}

// Register announces the HTTP service listening on httpAddress with an HTTP health check.
func (r *ConsulRegistry) Register(httpAddress string) error {
	port, err := portOf(httpAddress)
	if err != nil {
		return err
	}

	r.serviceID = fmt.Sprintf("%s-%s-%d", r.cfg.ServiceName, r.cfg.ServiceHost, port)

	registration := &consulapi.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    r.cfg.ServiceName,
		Address: r.cfg.ServiceHost,
		Port:    port,
		Tags:    []string{"http", "api"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", r.cfg.ServiceHost, port, r.cfg.CheckPath),
			Interval:                       r.cfg.Interval.String(),
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: r.cfg.Deregister.String(),
		},
	}

	if err := r.agent.ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with consul: %w", err)
	}

	return nil
}

// Deregister removes the instance registered by Register.
func (r *ConsulRegistry) Deregister() error {
	if r.serviceID == "" {
		return nil
	}

	return r.agent.ServiceDeregister(r.serviceID)
}

func portOf(address string) (int, error) {
	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", address, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port in listen address %q: %w", address, err)
	}

	return port, nil
}
