package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/remember/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-g string   gRPC health bind address, empty disables it
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret
//	-k string   vault encryption secret
//	-t int      token validity, hours
//	-e string   environment: development, production or test
//	-b string   S3 bucket for exports
//
// Only these flags are read from os.Args, so other loaders keep theirs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-k", "-t", "-e", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "vault encryption key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity (in hours)")

	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for exports")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// untouched -t must not truncate a finer duration from env or JSON
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
		}
	})
}
