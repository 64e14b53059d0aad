// Copyright 2026 PromptVideo
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package doctor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoCheck pings the configured MongoDB deployment. Reachability only; the
// backend owns its schema.
func MongoCheck(uri string) Check {
	return Check{
		Name:     "mongodb reachable",
		Optional: true,
		Timeout:  5 * time.Second,
		Run: func(ctx context.Context) (string, error) {
			client, err := mongo.Connect(options.Client().
				ApplyURI(uri).
				SetServerSelectionTimeout(3 * time.Second))
			if err != nil {
				return "", errors.Wrap(err, "connecting")
			}
			defer func() {
				_ = client.Disconnect(context.Background())
			}()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return "", errors.Wrapf(err, "pinging %s", uri)
			}
			return uri, nil
		},
	}
}
