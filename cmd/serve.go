package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/strandlabs/vaultwire/pkg/apps"
	"github.com/strandlabs/vaultwire/pkg/apps/misc"
	"github.com/strandlabs/vaultwire/pkg/config"
	"github.com/strandlabs/vaultwire/pkg/metrics"
	vwprom "github.com/strandlabs/vaultwire/pkg/metrics/prometheus"
	"github.com/strandlabs/vaultwire/pkg/ui"
	"github.com/strandlabs/vaultwire/pkg/vault"
	"github.com/strandlabs/vaultwire/pkg/wire"
)

var (
	cmdServe = &cobra.Command{
		Use:   "serve",
		Short: "Start up the device emulator",
		Long:  ``,
		Run:   runServe,
	}
)

var serveConf string
var serveMetrics string
var serveDebug bool

func init() {
	rootCmd.AddCommand(cmdServe)
	cmdServe.Flags().StringVarP(&serveConf, "conf", "c", "vaultwire.conf", "Configuration file")
	cmdServe.Flags().StringVarP(&serveMetrics, "metrics", "m", "", "Prom metrics address")
	cmdServe.Flags().BoolVarP(&serveDebug, "debug", "d", false, "Debug logging (trace)")
}

func runServe(_ *cobra.Command, _ []string) {
	var log types.RootLogger
	var reg *prometheus.Registry
	var wireMetrics metrics.WireMetrics

	if serveDebug {
		log = logging.New(logging.Zerolog, "vaultwire.serve", os.Stderr)
		log.SetLevel(types.TraceLevel)
	}

	if serveMetrics != "" {
		reg = prometheus.NewRegistry()
		wireMetrics = vwprom.New(reg, vwprom.DefaultConfig())

		// Add the default go metrics
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          reg,
		}))

		go http.ListenAndServe(serveMetrics, nil)
	}

	conf, err := config.ReadSchema(serveConf)
	if err != nil {
		panic(err)
	}
	if conf.Device == nil {
		panic("config has no device block")
	}
	if len(conf.Interface) == 0 {
		panic("config exposes no interfaces")
	}

	v := vault.New(log)
	if conf.Device.Seed != "" {
		v.Initialize([]byte(conf.Device.Seed))
	}
	if conf.Device.Pin != "" {
		if err := v.ChangePin("", conf.Device.Pin); err != nil {
			panic(err)
		}
	}

	registry := wire.NewRegistry()
	info := misc.DeviceInfo{
		Vendor:  conf.Device.Vendor,
		Model:   conf.Device.Model,
		Version: conf.Device.Version,
	}
	err = apps.Register(registry, info, v, &ui.AutoApprove{Pin: conf.Device.Pin})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if wireMetrics != nil {
			wireMetrics.Shutdown()
		}
		cancel()
		os.Exit(1)
	}()

	fmt.Printf("Starting vaultwire %s %s %s\n",
		color.GreenString(info.Vendor), info.Model, info.Version)

	var wg sync.WaitGroup
	for _, iface := range conf.Interface {
		wg.Add(1)
		go func(iface *config.InterfaceSchema) {
			defer wg.Done()
			serveInterface(ctx, iface, registry, log, wireMetrics)
		}(iface)
	}
	wg.Wait()
}

// serveInterface accepts host connections for one configured interface and
// runs a session loop per connection. Each connection is its own physical
// interface; sessions on different connections are fully independent.
func serveInterface(ctx context.Context, iface *config.InterfaceSchema, registry *wire.Registry, log types.Logger, met metrics.WireMetrics) {
	l, err := net.Listen("tcp", iface.Listen)
	if err != nil {
		panic(fmt.Sprintf("Could not listen on %s. %v", iface.Listen, err))
	}
	defer l.Close()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	fmt.Printf("Interface %s listening on %s\n", color.CyanString(iface.Name), iface.Listen)

	connID := 0
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		connID++
		name := fmt.Sprintf("%s/%d", iface.Name, connID)

		go func(conn net.Conn, name string) {
			defer conn.Close()

			s := wire.NewSession(name, uint32(iface.Session), conn, registry, log)
			if met != nil {
				met.AddSession(name, s)
				defer met.RemoveSession(name)
			}

			err := s.Run(ctx)
			if log != nil {
				log.Info().Str("iface", name).Err(err).Msg("session ended")
			}
		}(conn, name)
	}
}
