package main

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// dates are stored as text on both drivers so the models scan identically
const postgresSchema = `
create table if not exists users (
	id bigserial primary key,
	login varchar(30) not null unique check (length(login) between 3 and 30),
	email varchar(255) not null unique,
	password varchar(255) not null,
	first_name varchar(50),
	last_name varchar(50),
	birth_date text,
	role varchar(10) not null default 'user'
);

create table if not exists artists (
	id bigserial primary key,
	name varchar(100) not null check (length(name) between 2 and 100),
	country varchar(50)
);

create table if not exists albums (
	id bigserial primary key,
	title varchar(150) not null check (length(title) between 1 and 150),
	release_date text,
	artist_id bigint not null references artists(id)
);

create table if not exists tracks (
	id bigserial primary key,
	title varchar(200) not null check (length(title) between 1 and 200),
	duration integer not null check (duration > 0 and duration < 86400),
	file_path text,
	album_id bigint references albums(id)
);

create table if not exists playlists (
	id bigserial primary key,
	name varchar(100) not null check (length(name) between 1 and 100),
	owner_id bigint not null references users(id) on delete cascade
);

create table if not exists playlist_tracks (
	playlist_id bigint not null references playlists(id) on delete cascade,
	track_id bigint not null references tracks(id) on delete cascade,
	position integer not null,
	primary key (playlist_id, track_id)
);
`

func NewPostgresRepository(dbURL string) (*SQLRepository, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLRepository{db: db}, nil
}
