package main

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jacentio/sdbmap/store"
)

var (
	// rootCmd is the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "sdbq",
		Short: "Inspect an sdbmap domain stored in DynamoDB",
		Long: `sdbq reads and writes the items of an sdbmap domain directly.

Flags can also be set through SDBQ_* environment variables
(for example SDBQ_TABLE or SDBQ_ENDPOINT) or a .env file.`,
		SilenceUsage:      true,
		PersistentPreRunE: bindFlags,
	}

	// openDomain returns the domain commands operate on.
	openDomain = func(ctx context.Context) (store.Domain, error) {
		client, err := newClient(ctx)
		if err != nil {
			return nil, err
		}
		return store.New(client, storeConfig()), nil
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	defaults := store.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("table", defaults.TableName, "DynamoDB table holding the domain")
	flags.String("name-attribute", defaults.NameAttribute, "hash key attribute holding item names")
	flags.String("endpoint", "", "DynamoDB endpoint override, e.g. http://localhost:8000")
	flags.String("region", "", "AWS region (default: from the AWS config chain)")
	flags.Bool("consistent", false, "use strongly consistent reads")

	rootCmd.AddCommand(itemNameCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(createTableCmd)
}

// initConfig loads env files and binds SDBQ_* environment variables.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("sdbq")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func storeConfig() store.Config {
	return store.Config{
		TableName:      viper.GetString("table"),
		NameAttribute:  viper.GetString("name-attribute"),
		ConsistentRead: viper.GetBool("consistent"),
	}
}

func newClient(ctx context.Context) (*dynamodb.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region := viper.GetString("region"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := viper.GetString("endpoint")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
