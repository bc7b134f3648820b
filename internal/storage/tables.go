package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// tableDef is one table's name and composite key. Both tables use
// string hash+range keys.
type tableDef struct {
	name string
	pk   string
	sk   string
}

// tableDefs returns the schema of the call records table (keyed date
// then call) and the agent daily stats table (keyed agent then date)
func tableDefs(cfg DynamoConfig) []tableDef {
	return []tableDef{
		{name: cfg.CallRecordsTable, pk: "DateKey", sk: "CallID"},
		{name: cfg.AgentDailyTable, pk: "AgentID", sk: "Date"},
	}
}

// CreateTablesIfNotExist bootstraps both tables, used in local mode
// where no infrastructure tooling provisions them
func CreateTablesIfNotExist(ctx context.Context, client *dynamodb.Client, cfg DynamoConfig, logger zerolog.Logger) error {
	for _, def := range tableDefs(cfg) {
		if _, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(def.name),
		}); err == nil {
			logger.Info().Str("table", def.name).Msg("table already exists")
			continue
		}

		_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(def.name),
			KeySchema: []dbtypes.KeySchemaElement{
				{AttributeName: aws.String(def.pk), KeyType: dbtypes.KeyTypeHash},
				{AttributeName: aws.String(def.sk), KeyType: dbtypes.KeyTypeRange},
			},
			AttributeDefinitions: []dbtypes.AttributeDefinition{
				{AttributeName: aws.String(def.pk), AttributeType: dbtypes.ScalarAttributeTypeS},
				{AttributeName: aws.String(def.sk), AttributeType: dbtypes.ScalarAttributeTypeS},
			},
			BillingMode: dbtypes.BillingModePayPerRequest,
		})
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", def.name, err)
		}
		logger.Info().Str("table", def.name).Msg("table created")
	}

	return nil
}
