package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust their retries are parked in a per-queue Redis list so an
// operator can inspect and replay them from redis-cli. The list is capped: a
// push endpoint that stays down must not grow Redis without bound.
const (
	dlqPrefix     = "muertos:"
	dlqMaxEntries = 1000
)

// JobMuerto preserves the failed payload with enough context to replay it by hand.
type JobMuerto struct {
	Cola         string          `json:"cola"`
	Tipo         string          `json:"tipo"`
	Payload      json.RawMessage `json:"payload"`
	Motivo       string          `json:"motivo"`
	Intentos     int             `json:"intentos"`
	DescartadoEn time.Time       `json:"descartado_en"`
}

// SendToDLQ parks a job that exhausted its retries.
func SendToDLQ(ctx context.Context, rdb *redis.Client, cola string, job Job, motivo string) {
	entrada := JobMuerto{
		Cola:         cola,
		Tipo:         job.Type,
		Payload:      job.Payload,
		Motivo:       motivo,
		Intentos:     job.Attempts,
		DescartadoEn: time.Now().UTC(),
	}
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar el job")
		return
	}

	key := dlqPrefix + cola
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, dlqMaxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo encolar el job")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo", job.Type).
		Str("motivo", motivo).
		Int("intentos", job.Attempts).
		Msg("dlq: job descartado tras agotar reintentos")
}

// DLQLength reports how many jobs are parked for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, dlqPrefix+cola).Result()
}
