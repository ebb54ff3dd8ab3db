package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"proxpeek/config"
	"proxpeek/controllers"
	"proxpeek/models"
	"proxpeek/proxmox"
	"proxpeek/routers"
	"proxpeek/tui"
	"proxpeek/utils"

	limit "github.com/aviddiviner/gin-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// setupLog configures log output level with "INFO" as default
func setupLog(conf *config.Config) {
	executable, _ := os.Executable()
	executable = filepath.FromSlash(executable)
	directory := filepath.Dir(executable)
	log.SetFormatter(&log.TextFormatter{
		DisableQuote: true,
	})
	logLevel := strings.ToUpper(conf.LogLevel)
	if logLevel == "DEBUG" {
		log.SetLevel(log.DebugLevel)

	} else if logLevel == "ERROR" {
		log.SetLevel(log.ErrorLevel)

	} else {
		log.SetLevel(log.InfoLevel)
	}

	log.Infof("Executable: %v", executable)
	log.Infof("Dir: %v", directory)
	log.Infof("Log Level: %v", log.GetLevel())
}

// openStore picks the database when one is configured, the settings file
// otherwise.
func openStore(conf *config.Config) (*gorm.DB, config.Store, error) {
	if conf.HasDatabase() {
		db, err := models.SetupModels(conf)
		if err != nil {
			return nil, nil, err
		}
		return db, models.NewSettingStore(db), nil
	}
	store, err := config.NewFileStore(conf.SettingsFile)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Settings file: %v", store.Path())
	return nil, store, nil
}

func newRouter(db *gorm.DB, manager *controllers.Manager, reg *prometheus.Registry) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Provide db and manager to context
	r.Use(routers.Inject(db, manager))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	api := r.Group("/api/v1").Use(limit.MaxAllowed(30))
	{
		routers.GetEndpoints(api)
	}
	return r
}

func run(conf *config.Config, withTUI bool) error {
	log.Info("**** ProxPeek")
	log.Infof("CPU: %v", runtime.GOARCH)
	log.Infof("Platform: %v", runtime.GOOS)

	db, store, err := openStore(conf)
	if err != nil {
		return err
	}
	settings, err := config.Bootstrap(store, conf.Settings())
	if err != nil {
		return err
	}
	if !settings.Ready() {
		log.Warn("Proxmox connection is not configured yet")
	}

	client := proxmox.NewClient(proxmox.Config{
		Settings:   settings,
		Node:       conf.Node,
		HTTPClient: utils.NewHTTPClient(time.Duration(conf.HTTPTimeoutSeconds)*time.Second, conf.InsecureTLS),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	manager := controllers.NewManager(ctx, db, client)
	manager.UseStore(store)
	manager.UseMetrics(controllers.NewMetrics(reg))

	// Register tasks
	manager.AddTask(controllers.NewPoller("PollerTask", time.Duration(conf.PollIntervalSeconds)*time.Second))
	if db != nil {
		manager.AddTask(controllers.NewActionLog("ActionLogTask"))
	}
	if conf.MQTTBroker != "" {
		manager.AddTask(controllers.NewMQTTPublisherTask("MQTTPublisherTask", conf.MQTTBroker,
			conf.MQTTTopicPrefix+"/state", conf.MQTTUser, conf.MQTTPassword))
		manager.AddTask(controllers.NewMQTTSubscriber("MQTTSubscriberTask", conf.MQTTBroker,
			conf.MQTTTopicPrefix+"/command", conf.MQTTUser, conf.MQTTPassword))
	}

	r := newRouter(db, manager, reg)
	go func() {
		if err := r.Run(fmt.Sprintf(":%v", conf.GinPort)); err != nil {
			log.Fatal(err)
		}
	}()

	manager.StartAll()
	defer manager.StopAll()

	if withTUI {
		return tui.Run(manager)
	}
	<-ctx.Done()
	return nil
}

func main() {
	withTUI := flag.Bool("tui", false, "show the guest list in the terminal")
	logFile := flag.String("log-file", "proxpeek.log", "log destination while the terminal view is shown")
	flag.Parse()

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *withTUI {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
		gin.DefaultWriter = f
		gin.DefaultErrorWriter = f
	}
	setupLog(conf)

	if err := run(conf, *withTUI); err != nil {
		log.Fatal(err)
	}
}
