package sqlinline

// Schema bootstrap for the optional history store, applied at startup.
const QEnsureGenerationsTable = `
create table if not exists generations (
  id          uuid primary key,
  prompt      text not null,
  provider    text not null,
  storage_key text not null,
  format      text not null,
  bytes       bigint not null,
  duration    double precision not null,
  seed        bigint not null,
  created_at  timestamptz not null default now()
);
`

const QInsertGeneration = `
insert into generations (id, prompt, provider, storage_key, format, bytes, duration, seed, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

const QSelectRecentGenerations = `
select id, prompt, provider, storage_key, format, bytes, duration, seed, created_at
from generations
order by created_at desc
limit $1;
`
