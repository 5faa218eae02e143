package main

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
create table if not exists users (
	id integer primary key autoincrement,
	login text not null unique check (length(login) between 3 and 30),
	email text not null unique,
	password text not null,
	first_name text,
	last_name text,
	birth_date text,
	role text not null default 'user'
);

create table if not exists artists (
	id integer primary key autoincrement,
	name text not null check (length(name) between 2 and 100),
	country text
);

create table if not exists albums (
	id integer primary key autoincrement,
	title text not null check (length(title) between 1 and 150),
	release_date text,
	artist_id integer not null references artists(id)
);

create table if not exists tracks (
	id integer primary key autoincrement,
	title text not null check (length(title) between 1 and 200),
	duration integer not null check (duration > 0 and duration < 86400),
	file_path text,
	album_id integer references albums(id)
);

create table if not exists playlists (
	id integer primary key autoincrement,
	name text not null check (length(name) between 1 and 100),
	owner_id integer not null references users(id) on delete cascade
);

create table if not exists playlist_tracks (
	playlist_id integer not null references playlists(id) on delete cascade,
	track_id integer not null references tracks(id) on delete cascade,
	position integer not null,
	primary key (playlist_id, track_id)
);
`

func NewSQLiteRepository(filePath string) (*SQLRepository, error) {
	db, err := sqlx.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}

	// sqlite serializes writers anyway, and a single connection keeps
	// :memory: databases from splitting per pool connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`pragma foreign_keys = on;`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLRepository{db: db}, nil
}
