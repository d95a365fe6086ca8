package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Seklfreak/highlights/cache"
	"github.com/Seklfreak/highlights/helpers"
	"github.com/Seklfreak/highlights/logging"
	"github.com/Seklfreak/highlights/metrics"
	"github.com/Seklfreak/highlights/migrations"
	"github.com/Seklfreak/highlights/ratelimits"
	"github.com/Seklfreak/highlights/version"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/go-redis/redis"
	"github.com/kz/discordrus"
	"github.com/sirupsen/logrus"
)

var (
	BotRuntimeChannel chan os.Signal
)

// Entrypoint
func main() {
	var err error

	log := logrus.New()
	log.Out = os.Stdout
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339}
	log.Hooks = make(logrus.LevelHooks)
	cache.SetLogger(log)

	// Read config
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	helpers.LoadConfig(configPath)

	// Check if the bot is being debugged
	if helpers.ConfigBool("debug") {
		helpers.DEBUG_MODE = true
		log.Level = logrus.DebugLevel
	}

	if jsonFile := helpers.ConfigString("logging.jsonfile"); jsonFile != "" {
		fileHook, err := logging.NewLogrusFileHook(jsonFile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			log.WithField("module", "launcher").Error("logrus file hook failed, err:", err.Error())
		} else {
			log.Hooks.Add(fileHook)
			defer fileHook.Close()
		}
	}

	if webhook := helpers.ConfigString("logging.discord_webhook"); webhook != "" {
		log.Hooks.Add(discordrus.NewHook(
			webhook,
			logrus.ErrorLevel,
			&discordrus.Opts{
				Username:           "Logging",
				DisableTimestamp:   false,
				TimestampFormat:    "Jan 2 15:04:05.00000",
				EnableCustomColors: true,
				CustomLevelColors: &discordrus.LevelColors{
					Error: 13631488,
					Panic: 13631488,
					Fatal: 13631488,
				},
			},
		))
	}

	log.WithField("module", "launcher").Info("Booting highlights...")

	// Read i18n
	helpers.LoadTranslations()

	// Show version
	version.DumpInfo(log)

	// Start metric server
	metrics.Init(log, helpers.ConfigString("metrics_ip"))

	// Make the randomness more random
	rand.Seed(time.Now().UTC().UnixNano())

	// Print UA
	log.WithField("module", "launcher").Info("USERAGENT: '" + helpers.DEFAULT_UA + "'")

	// Call home
	if dsn := helpers.ConfigString("sentry"); dsn != "" {
		log.WithField("module", "launcher").Info("[SENTRY] Calling home...")
		err = raven.SetDSN(dsn)
		helpers.Relax(err)
		if version.BOT_VERSION != "UNSET" {
			raven.SetRelease(version.BOT_VERSION)
		}
		log.WithField("module", "launcher").Info("[SENTRY] Someone picked up the phone \\^-^/")
	}

	// Connect to DB
	if mongoURL := helpers.ConfigString("mongodb.url"); mongoURL != "" {
		log.WithField("module", "launcher").Info("Opening database connection...")
		err = helpers.ConnectMDB(mongoURL, helpers.ConfigString("mongodb.db"))
		if err != nil {
			raven.CaptureErrorAndWait(err, nil)
			log.WithField("module", "launcher").Fatal(err.Error())
		}

		// Close DB when main dies
		defer helpers.GetMDbSession().Close()

		// Run migrations
		err = migrations.Run(helpers.GetMDb())
		if err != nil {
			raven.CaptureErrorAndWait(err, nil)
			log.WithField("module", "launcher").Fatal(err.Error())
		}
	}

	// Connecting to redis
	if redisAddress := helpers.ConfigString("redis.address"); redisAddress != "" {
		log.WithField("module", "launcher").Info("Connecting to redis...")
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddress,
			Password: "", // no password set
			DB:       0,  // use default DB
		})
		err = redisClient.Ping().Err()
		if err != nil {
			log.WithField("module", "launcher").Warn("redis is unreachable, image probes won't be cached: ", err.Error())
		} else {
			cache.SetRedisClient(redisClient)
			defer redisClient.Close()
		}
	}

	// Connect and add event handlers
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		pc, file, line, _ := runtime.Caller(caller)

		files := strings.Split(file, "/")
		file = files[len(files)-1]

		name := runtime.FuncForPC(pc).Name()
		fns := strings.Split(name, ".")
		name = fns[len(fns)-1]

		msg := format
		if strings.Contains(msg, "%") {
			msg = fmt.Sprintf(format, a...)
		}

		switch msgL {
		case discordgo.LogError:
			log.WithField("module", "discordgo").Errorf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogWarning:
			log.WithField("module", "discordgo").Warnf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogInformational:
			log.WithField("module", "discordgo").Infof("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogDebug:
			log.WithField("module", "discordgo").Debugf("%s:%d:%s() %s", file, line, name, msg)
		}
	}
	log.WithField("module", "launcher").Info("Connecting highlights to discord...")
	discord, err := discordgo.New("Bot " + helpers.ConfigString("discord.token"))
	helpers.Relax(err)

	discord.Lock()
	discord.Debug = false
	discord.LogLevel = discordgo.LogInformational
	discord.StateEnabled = true
	discord.State.MaxMessageCount = 100
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
	discord.Unlock()

	discord.AddHandler(BotOnReady)
	discord.AddHandler(BotOnMessageCreate)
	discord.AddHandler(BotOnReactionAdd)
	discord.AddHandler(BotOnReactionRemove)

	// Run ratelimiter
	stopRatelimiter := make(chan struct{})
	go ratelimits.Container.Refiller(stopRatelimiter)
	defer close(stopRatelimiter)

	// Connect to discord
	err = discord.Open()
	if err != nil {
		raven.CaptureErrorAndWait(err, nil)
		panic(err)
	}

	// Make a channel that waits for a os signal
	BotRuntimeChannel = make(chan os.Signal, 1)
	signal.Notify(BotRuntimeChannel, os.Interrupt, syscall.SIGTERM)

	// Wait until the os wants us to shutdown
	<-BotRuntimeChannel

	log.WithField("module", "launcher").Info("highlights is stopping")
	log.WithField("module", "launcher").Info("Disconnecting bot discord session...")
	discord.Close()
}
