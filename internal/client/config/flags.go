package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-f string   data directory
//	-l string   local database file (relative to the data directory)
//	-d string   remote PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-a string   deep-link URL scheme
//	-n          do not sync on start
//	-k          do not check the clipboard on start
//	-v string   log level (debug, info, warn, error)
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket (empty disables export)
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// The first positional argument, if any, is the link the client was launched
// with. Unknown flags are filtered out first, so -c/-config can share os.Args.
// Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-f", "-l", "-d", "-s", "-t", "-r", "-a", "-n", "-k", "-v", "-u", "-p", "-b", "-g", "-e",
	})
	if link := flagx.FirstPositional(os.Args[1:], []string{
		"-c", "-config", "-f", "-l", "-d", "-s", "-t", "-r", "-a", "-v", "-u", "-p", "-b", "-g", "-e",
	}); link != "" {
		config.InitialLink = link
	}

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	fs.StringVar(&config.LocalDBPath, "l", config.LocalDBPath, "local database file")
	fs.StringVar(&config.RemoteDSN, "d", config.RemoteDSN, "remote database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.AppScheme, "a", config.AppScheme, "deep link scheme")
	noSync := fs.Bool("n", !config.SyncOnStart, "do not sync on start")
	noClipboard := fs.Bool("k", !config.CheckClipboard, "do not check the clipboard on start")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
	config.SyncOnStart = !*noSync
	config.CheckClipboard = !*noClipboard
}
