package mongo

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs work inside a multi-document transaction. Transactions
// need a replica set; with enabled=false fn runs directly on ctx and its
// writes are not atomic.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool, log zerolog.Logger) *Transactor {
	if !enabled {
		log.Warn().
			Str("setting", "MONGO_TRANSACTIONS").
			Msg("mongo transactions disabled, a failed order insert can leave its header stored")
	}
	return &Transactor{client: client, enabled: enabled}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
