package discovery

import (
	"errors"
	"fmt"
	"net"

	"github.com/hashicorp/consul/api"
	"github.com/sirupsen/logrus"
)

var ErrNoHealthyInstance = errors.New("no healthy instance")

type ConsulClient struct {
	client *api.Client
	log    logrus.FieldLogger
}

type ServiceConfig struct {
	Name    string
	ID      string
	Address string
	Port    int
	Tags    []string
}

// NewConsulClient connects to the agent at addr ("host:port" or a URL) and
// checks that it answers.
func NewConsulClient(addr string, logger logrus.FieldLogger) (*ConsulClient, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	if _, err := client.Agent().Self(); err != nil {
		return nil, fmt.Errorf("failed to connect to Consul: %w", err)
	}

	logger.WithField("consul", addr).Info("connected to Consul")
	return &ConsulClient{client: client, log: logger}, nil
}

// getOutboundIP gets the preferred outbound IP of this machine
func getOutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// Register announces the service with an HTTP health check on /health.
func (c *ConsulClient) Register(cfg ServiceConfig) error {
	host := cfg.Address
	if host == "" {
		host = getOutboundIP()
	}

	registration := &api.AgentServiceRegistration{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Port:    cfg.Port,
		Address: host,
		Tags:    cfg.Tags,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", host, cfg.Port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	c.log.WithFields(logrus.Fields{"service": cfg.Name, "id": cfg.ID}).Info("registered service")
	return nil
}

func (c *ConsulClient) Deregister(serviceID string) error {
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

// ServiceURL returns the base URL of the first healthy instance of name.
func (c *ConsulClient) ServiceURL(name string) (string, error) {
	services, _, err := c.client.Health().Service(name, "", true, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get service: %w", err)
	}
	if len(services) == 0 {
		return "", fmt.Errorf("%w of %s", ErrNoHealthyInstance, name)
	}

	service := services[0].Service
	address := service.Address
	if address == "" {
		address = services[0].Node.Address
	}
	if address == "" {
		address = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", address, service.Port), nil
}

// ResolveURL returns the URL of service name, or fallback when the lookup
// fails.
func (c *ConsulClient) ResolveURL(name, fallback string) string {
	url, err := c.ServiceURL(name)
	if err != nil {
		c.log.WithError(err).WithField("service", name).Warn("service lookup failed, using fallback URL")
		return fallback
	}
	return url
}
