package postgresql

// migrations returns the ordered schema migrations for the app store.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS apps (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'draft',
				app_group_id TEXT NOT NULL,
				metadata JSONB NOT NULL DEFAULT '{}',
				owner TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				published_at TIMESTAMP WITH TIME ZONE,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_apps_group_status
				ON apps (app_group_id, status)
				WHERE deleted_at IS NULL;

			CREATE INDEX IF NOT EXISTS idx_apps_owner
				ON apps (owner)
				WHERE deleted_at IS NULL;

			CREATE TABLE IF NOT EXISTS app_components (
				id TEXT PRIMARY KEY,
				app_id TEXT NOT NULL REFERENCES apps(id) ON DELETE CASCADE,
				type TEXT NOT NULL,
				name TEXT NOT NULL,
				x DOUBLE PRECISION NOT NULL DEFAULT 0,
				y DOUBLE PRECISION NOT NULL DEFAULT 0,
				width DOUBLE PRECISION NOT NULL DEFAULT 10,
				height DOUBLE PRECISION NOT NULL DEFAULT 10,
				props JSONB NOT NULL DEFAULT '{}',
				z_order INTEGER NOT NULL DEFAULT 0
			);

			CREATE INDEX IF NOT EXISTS idx_app_components_app
				ON app_components (app_id, z_order);

			CREATE TABLE IF NOT EXISTS app_connections (
				id TEXT PRIMARY KEY,
				app_id TEXT NOT NULL REFERENCES apps(id) ON DELETE CASCADE,
				source_port TEXT NOT NULL,
				target_port TEXT NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_app_connections_app
				ON app_connections (app_id);
		`,
	}
}
