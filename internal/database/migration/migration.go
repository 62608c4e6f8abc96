package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email          TEXT        NOT NULL UNIQUE,
  password_hash  TEXT        NOT NULL,
  full_name      TEXT        NOT NULL,
  community_id   TEXT        NOT NULL DEFAULT '',
  community_name TEXT        NOT NULL DEFAULT '',
  api_key        TEXT        NOT NULL DEFAULT '',
  is_active      BOOLEAN     NOT NULL DEFAULT TRUE,
  is_verified    BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_login     TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_leads",
		SQL: `CREATE TABLE IF NOT EXISTS leads (
  id               UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID             NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name             TEXT             NOT NULL DEFAULT '',
  email            TEXT             NOT NULL DEFAULT '',
  username         TEXT             NOT NULL DEFAULT '',
  profile_url      TEXT             NOT NULL DEFAULT '',
  source           TEXT             NOT NULL,
  status           TEXT             NOT NULL DEFAULT 'new',
  content          TEXT             NOT NULL DEFAULT '',
  intent_score     DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (intent_score >= 0 AND intent_score <= 1),
  quality_grade    TEXT             NOT NULL DEFAULT '',
  interests        JSONB            NOT NULL DEFAULT '[]',
  pain_points      JSONB            NOT NULL DEFAULT '[]',
  summary          TEXT             NOT NULL DEFAULT '',
  contact_method   TEXT             NOT NULL DEFAULT '',
  contact_count    INTEGER          NOT NULL DEFAULT 0,
  last_contacted   TIMESTAMPTZ,
  converted_at     TIMESTAMPTZ,
  conversion_value DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_leads_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leads_user_id ON leads (user_id);`,
	},
	{
		Name: "create_index_leads_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);`,
	},
	{
		Name: "create_index_leads_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at);`,
	},
	{
		Name: "create_table_members",
		SQL: `CREATE TABLE IF NOT EXISTS members (
  id                      UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id                 UUID             NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  platform_member_id      TEXT             NOT NULL,
  email                   TEXT             NOT NULL DEFAULT '',
  username                TEXT             NOT NULL DEFAULT '',
  full_name               TEXT             NOT NULL DEFAULT '',
  status                  TEXT             NOT NULL DEFAULT 'active',
  tier                    TEXT             NOT NULL DEFAULT '',
  monthly_revenue         DOUBLE PRECISION NOT NULL DEFAULT 0,
  last_seen               TIMESTAMPTZ,
  last_message            TIMESTAMPTZ,
  total_messages          INTEGER          NOT NULL DEFAULT 0,
  activity_score          DOUBLE PRECISION NOT NULL DEFAULT 0,
  churn_risk              TEXT             NOT NULL DEFAULT 'low',
  churn_score             DOUBLE PRECISION NOT NULL DEFAULT 0,
  days_inactive           INTEGER          NOT NULL DEFAULT 0,
  retention_messages_sent INTEGER          NOT NULL DEFAULT 0,
  last_retention_contact  TIMESTAMPTZ,
  joined_at               TIMESTAMPTZ      NOT NULL,
  churned_at              TIMESTAMPTZ,
  created_at              TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ      NOT NULL DEFAULT now(),
  UNIQUE (user_id, platform_member_id)
);`,
	},
	{
		Name: "create_index_members_churn_risk",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_members_churn_risk ON members (user_id, churn_risk);`,
	},
	{
		Name: "create_table_retention_messages",
		SQL: `CREATE TABLE IF NOT EXISTS retention_messages (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  member_id           UUID        NOT NULL REFERENCES members (id) ON DELETE CASCADE,
  message_type        TEXT        NOT NULL,
  subject             TEXT        NOT NULL DEFAULT '',
  content             TEXT        NOT NULL,
  sent_at             TIMESTAMPTZ NOT NULL,
  external_message_id TEXT        NOT NULL DEFAULT '',
  member_returned     BOOLEAN,
  return_date         TIMESTAMPTZ,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_campaigns",
		SQL: `CREATE TABLE IF NOT EXISTS campaigns (
  id                      UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id                 UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name                    TEXT        NOT NULL,
  description             TEXT        NOT NULL DEFAULT '',
  status                  TEXT        NOT NULL DEFAULT 'draft',
  subject_template        TEXT        NOT NULL DEFAULT '',
  message_template        TEXT        NOT NULL,
  personalization_enabled BOOLEAN     NOT NULL DEFAULT TRUE,
  total_leads             INTEGER     NOT NULL DEFAULT 0,
  messages_sent           INTEGER     NOT NULL DEFAULT 0,
  responses_received      INTEGER     NOT NULL DEFAULT 0,
  conversions             INTEGER     NOT NULL DEFAULT 0,
  created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  started_at              TIMESTAMPTZ,
  completed_at            TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_outreach_messages",
		SQL: `CREATE TABLE IF NOT EXISTS outreach_messages (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  campaign_id   UUID        NOT NULL REFERENCES campaigns (id) ON DELETE CASCADE,
  lead_id       UUID        NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
  subject       TEXT        NOT NULL DEFAULT '',
  content       TEXT        NOT NULL,
  status        TEXT        NOT NULL DEFAULT 'draft',
  sent_at       TIMESTAMPTZ,
  opened_at     TIMESTAMPTZ,
  clicked_at    TIMESTAMPTZ,
  replied_at    TIMESTAMPTZ,
  error_message TEXT        NOT NULL DEFAULT '',
  retry_count   INTEGER     NOT NULL DEFAULT 0,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_outreach_messages_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_outreach_messages_status ON outreach_messages (status);`,
	},
	{
		Name: "create_table_revenue_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS revenue_transactions (
  id                  UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID             NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  member_id           UUID             REFERENCES members (id) ON DELETE SET NULL,
  external_payment_id TEXT             NOT NULL,
  gross_amount        DOUBLE PRECISION NOT NULL,
  platform_fee        DOUBLE PRECISION NOT NULL,
  client_amount       DOUBLE PRECISION NOT NULL,
  transaction_type    TEXT             NOT NULL,
  status              TEXT             NOT NULL,
  processed_at        TIMESTAMPTZ,
  created_at          TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
