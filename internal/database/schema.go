package database

// schema is applied on every connect; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL UNIQUE,
	password_hashed TEXT NOT NULL,
	avatar_path     TEXT,
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS vehicles (
	vin             TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	make            TEXT NOT NULL DEFAULT '',
	model           TEXT NOT NULL DEFAULT '',
	year            TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL DEFAULT '',
	trim            TEXT NOT NULL DEFAULT '',
	series          TEXT NOT NULL DEFAULT '',
	cmc             TEXT NOT NULL DEFAULT '',
	hp              TEXT NOT NULL DEFAULT '',
	fuel            TEXT NOT NULL DEFAULT '',
	transmission    TEXT NOT NULL DEFAULT '',
	country         TEXT NOT NULL DEFAULT '',
	drive           TEXT NOT NULL DEFAULT '',
	engine_code     TEXT NOT NULL DEFAULT '',
	number_of_doors TEXT NOT NULL DEFAULT '',
	number_of_seats TEXT NOT NULL DEFAULT '',
	color           TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_vehicles_user ON vehicles(user_id);

CREATE TABLE IF NOT EXISTS posts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	username    TEXT NOT NULL DEFAULT '',
	user_avatar TEXT,
	image_path  TEXT NOT NULL,
	caption     TEXT NOT NULL DEFAULT '',
	timestamp   TIMESTAMP NOT NULL,
	likes       INTEGER NOT NULL DEFAULT 0,
	comments    INTEGER NOT NULL DEFAULT 0,
	shares      INTEGER NOT NULL DEFAULT 0,
	liked_by    TEXT NOT NULL DEFAULT '[]',
	vehicle_id  TEXT
);

CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id);
CREATE INDEX IF NOT EXISTS idx_posts_timestamp ON posts(timestamp DESC);

CREATE TABLE IF NOT EXISTS favorite_posts (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	post_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	UNIQUE (post_id, user_id) ON CONFLICT REPLACE
);

CREATE INDEX IF NOT EXISTS idx_favorite_posts_user ON favorite_posts(user_id);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	token_hash  TEXT NOT NULL UNIQUE,
	expires_at  TIMESTAMP NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	revoked_at  TIMESTAMP,
	replaced_by TEXT,
	device_info TEXT,
	ip_address  TEXT
);

CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id);
`
