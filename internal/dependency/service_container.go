// Package dependency wires the peopled services using go.uber.org/dig.
package dependency

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/peopled/peopled/internal/agent"
	"github.com/peopled/peopled/internal/bus"
	"github.com/peopled/peopled/internal/channels"
	"github.com/peopled/peopled/internal/config"
	"github.com/peopled/peopled/internal/mcp"
	"github.com/peopled/peopled/internal/providers"
	"github.com/peopled/peopled/internal/schema"
	"github.com/peopled/peopled/internal/server"
	"github.com/peopled/peopled/internal/store"
	"github.com/peopled/peopled/internal/tools"
)

// ServiceContainer holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type ServiceContainer struct {
	provider     schema.LLMProvider
	store        *store.Store
	registry     *tools.Registry
	dispatcher   *mcp.Dispatcher
	orchestrator *agent.Orchestrator
	agentSvc     *agent.Service
	msgBus       bus.Bus
	chanMgr      *channels.Manager
	httpSrv      *server.Server
	backups      *store.BackupScheduler
}

func (c *ServiceContainer) Provider() schema.LLMProvider { return c.provider }
func (c *ServiceContainer) Store() *store.Store { return c.store }
func (c *ServiceContainer) Registry() *tools.Registry { return c.registry }
func (c *ServiceContainer) Dispatcher() *mcp.Dispatcher { return c.dispatcher }
func (c *ServiceContainer) Orchestrator() *agent.Orchestrator { return c.orchestrator }
func (c *ServiceContainer) AgentService() *agent.Service { return c.agentSvc }
func (c *ServiceContainer) Bus() bus.Bus { return c.msgBus }
func (c *ServiceContainer) ChannelManager() *channels.Manager { return c.chanMgr }
func (c *ServiceContainer) Server() *server.Server { return c.httpSrv }
func (c *ServiceContainer) Backups() *store.BackupScheduler { return c.backups }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*ServiceContainer, error) {
	d := dig.New()

	providerFns := []any{
		func() *config.Config { return cfg },
		newProvider,
		newStore,
		newBackupScheduler,
		newRegistry,
		newDispatcher,
		newOrchestrator,
		newMessageBus,
		newAgentService,
		newChannelManager,
		newServer,
	}
	for _, fn := range providerFns {
		if err := d.Provide(fn); err != nil {
			return nil, err
		}
	}

	var result *ServiceContainer
	err := d.Invoke(func(
		provider schema.LLMProvider,
		st *store.Store,
		registry *tools.Registry,
		dispatcher *mcp.Dispatcher,
		orchestrator *agent.Orchestrator,
		agentSvc *agent.Service,
		msgBus bus.Bus,
		chanMgr *channels.Manager,
		httpSrv *server.Server,
		backups *store.BackupScheduler,
	) {
		result = &ServiceContainer{
			provider:     provider,
			store:        st,
			registry:     registry,
			dispatcher:   dispatcher,
			orchestrator: orchestrator,
			agentSvc:     agentSvc,
			msgBus:       msgBus,
			chanMgr:      chanMgr,
			httpSrv:      httpSrv,
			backups:      backups,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no API key configured, edit %s", config.ConfigPath())
	}
	return providers.New(providers.Params{
		APIKey:       cfg.LLM.APIKey,
		APIBase:      cfg.LLM.APIBase,
		DefaultModel: cfg.LLM.Model,
		ExtraHeaders: cfg.LLM.ExtraHeaders,
	}), nil
}

func newStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Store.Path)
}

func newBackupScheduler(cfg *config.Config, st *store.Store) *store.BackupScheduler {
	return store.NewBackupScheduler(st, cfg.Store.BackupDir, cfg.Store.BackupSchedule)
}

func newRegistry(st *store.Store) (*tools.Registry, error) {
	b := tools.NewRegistryBuilder()
	for _, t := range tools.PeopleTools(st) {
		b = b.WithTool(t)
	}
	return b.Build()
}

func newDispatcher(registry *tools.Registry) *mcp.Dispatcher {
	return mcp.NewDispatcher(mcp.ServerInfo{
		Name:    config.AppName,
		Version: config.AppVersion,
	}, registry)
}

func newOrchestrator(cfg *config.Config, p schema.LLMProvider, registry *tools.Registry) *agent.Orchestrator {
	return agent.NewOrchestrator(p, registry, agent.Settings{
		Model:         cfg.LLM.Model,
		MaxTokens:     cfg.LLM.MaxTokens,
		Temperature:   cfg.LLM.Temperature,
		MaxToolRounds: cfg.Agent.MaxToolRounds,
	})
}

func newMessageBus() bus.Bus {
	return bus.NewMessageBus(100)
}

func newAgentService(b bus.Bus, orchestrator *agent.Orchestrator, cfg *config.Config) *agent.Service {
	return agent.NewService(b, orchestrator, cfg.Agent.HistoryWindow)
}

func newChannelManager(cfg *config.Config, b bus.Bus) *channels.Manager {
	return channels.NewManager(cfg, b)
}

func newServer(dispatcher *mcp.Dispatcher, orchestrator *agent.Orchestrator, st *store.Store) *server.Server {
	return server.New(dispatcher, orchestrator, st)
}
