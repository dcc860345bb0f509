package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// eventColumns is every persisted column of itinerary_events except the id,
// in insert order. Patch updates are validated against this set.
var eventColumns = []string{
	"grupo_id", "tipo", "data", "hora_inicio", "hora_fim", "duracao",
	"titulo", "subtitulo", "localizacao", "descricao", "preco", "status",
	"origem", "destino", "origem_codigo", "destino_codigo", "origem_hora",
	"destino_hora", "conexoes", "motorista", "possui_transfer",
	"transfer_data", "transfer_hora", "evento_referencia_id", "passageiros",
	"favorito", "atrasado", "atraso",
}

var patchableColumns = func() map[string]bool {
	set := make(map[string]bool, len(eventColumns))
	for _, col := range eventColumns {
		set[col] = true
	}
	return set
}()

// EventStore is the embedded persistence backend for standalone deployments:
// the same contract the remote backend client implements, served from local
// SQLite instead.
type EventStore struct {
	db *Database
}

// NewEventStore creates an event store over an opened database.
func NewEventStore(db *Database) *EventStore {
	return &EventStore{db: db}
}

// GetEventsByGroupID returns every event of a group.
func (s *EventStore) GetEventsByGroupID(ctx context.Context, groupID string) ([]models.EventWireRecord, error) {
	query := fmt.Sprintf(`SELECT id, %s FROM itinerary_events WHERE grupo_id = ? ORDER BY data, hora_inicio`,
		strings.Join(eventColumns, ", "))

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var records []models.EventWireRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return records, nil
}

// CreateEvent persists one event, assigning an id when none is set.
func (s *EventStore) CreateEvent(ctx context.Context, record models.EventWireRecord) (models.EventWireRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	conexoes, err := encodeJSONColumn(record.Conexoes)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("encoding conexoes: %w", err)
	}
	passageiros, err := encodeJSONColumn(record.Passageiros)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("encoding passageiros: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(eventColumns)+1), ", ")
	query := fmt.Sprintf(`INSERT INTO itinerary_events (id, %s) VALUES (%s)`,
		strings.Join(eventColumns, ", "), placeholders)

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.GrupoID, record.Tipo, record.Data, record.HoraInicio,
		record.HoraFim, record.Duracao, record.Titulo, record.Subtitulo,
		record.Localizacao, record.Descricao, record.Preco, record.Status,
		record.Origem, record.Destino, record.OrigemCodigo, record.DestinoCodigo,
		record.OrigemHora, record.DestinoHora, conexoes, record.Motorista,
		record.PossuiTransfer, record.TransferData, record.TransferHora,
		record.EventoReferenciaID, passageiros, record.Favorito,
		record.Atrasado, record.Atraso)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("inserting event: %w", err)
	}
	return record, nil
}

// UpdateEvent applies a partial update by id. Unknown columns in the patch
// are rejected rather than silently dropped.
func (s *EventStore) UpdateEvent(ctx context.Context, id string, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	columns := make([]string, 0, len(patch))
	for col := range patch {
		if !patchableColumns[col] {
			return fmt.Errorf("unknown column in patch: %q", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		assignments[i] = col + " = ?"
		value := patch[col]
		if col == "conexoes" || col == "passageiros" {
			encoded, err := encodeJSONColumn(value)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", col, err)
			}
			value = encoded
		}
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE itinerary_events SET %s WHERE id = ?`, strings.Join(assignments, ", "))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

// DeleteEvent hard-deletes one event by id. Deleting an absent id is a no-op.
func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM itinerary_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// GetGroupByID returns one mission group, nil error with sql.ErrNoRows
// wrapped when absent.
func (s *EventStore) GetGroupByID(ctx context.Context, id string) (*models.MissionGroup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mission_id, name, start_date, end_date, guide_id, created_at, updated_at
		 FROM mission_groups WHERE id = ?`, id)

	var group models.MissionGroup
	var guideID sql.NullString
	err := row.Scan(&group.ID, &group.MissionID, &group.Name, &group.StartDate,
		&group.EndDate, &guideID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching group %s: %w", id, err)
	}
	if guideID.Valid {
		group.GuideID = &guideID.String
	}
	return &group, nil
}

// GetGroupsByMissionID returns all groups of a mission.
func (s *EventStore) GetGroupsByMissionID(ctx context.Context, missionID string) ([]models.MissionGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mission_id, name, start_date, end_date, guide_id, created_at, updated_at
		 FROM mission_groups WHERE mission_id = ? ORDER BY start_date`, missionID)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []models.MissionGroup
	for rows.Next() {
		var group models.MissionGroup
		var guideID sql.NullString
		if err := rows.Scan(&group.ID, &group.MissionID, &group.Name, &group.StartDate,
			&group.EndDate, &guideID, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		if guideID.Valid {
			group.GuideID = &guideID.String
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// GetAllTravelers returns travelers filtered by mission or by group.
func (s *EventStore) GetAllTravelers(ctx context.Context, filter models.TravelerFilter) ([]models.Traveler, error) {
	query := `SELECT id, mission_id, group_id, name, email, phone FROM travelers`
	var args []any
	switch {
	case filter.GroupID != "":
		query += ` WHERE group_id = ?`
		args = append(args, filter.GroupID)
	case filter.MissionID != "":
		query += ` WHERE mission_id = ?`
		args = append(args, filter.MissionID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying travelers: %w", err)
	}
	defer rows.Close()

	var travelers []models.Traveler
	for rows.Next() {
		var t models.Traveler
		var groupID, email, phone sql.NullString
		if err := rows.Scan(&t.ID, &t.MissionID, &groupID, &t.Name, &email, &phone); err != nil {
			return nil, fmt.Errorf("scanning traveler: %w", err)
		}
		if groupID.Valid {
			t.GroupID = &groupID.String
		}
		t.Email = email.String
		t.Phone = phone.String
		travelers = append(travelers, t)
	}
	return travelers, rows.Err()
}

// scanEvent reads one itinerary_events row.
func scanEvent(rows *sql.Rows) (models.EventWireRecord, error) {
	var r models.EventWireRecord
	var horaFim, duracao, subtitulo, localizacao, descricao, status sql.NullString
	var origem, destino, origemCodigo, destinoCodigo, origemHora, destinoHora sql.NullString
	var conexoes, motorista, transferData, transferHora, referenciaID, passageiros, atraso sql.NullString

	err := rows.Scan(&r.ID, &r.GrupoID, &r.Tipo, &r.Data, &r.HoraInicio,
		&horaFim, &duracao, &r.Titulo, &subtitulo, &localizacao, &descricao,
		&r.Preco, &status, &origem, &destino, &origemCodigo, &destinoCodigo,
		&origemHora, &destinoHora, &conexoes, &motorista, &r.PossuiTransfer,
		&transferData, &transferHora, &referenciaID, &passageiros,
		&r.Favorito, &r.Atrasado, &atraso)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("scanning event: %w", err)
	}

	r.HoraFim = horaFim.String
	r.Duracao = duracao.String
	r.Subtitulo = subtitulo.String
	r.Localizacao = localizacao.String
	r.Descricao = descricao.String
	r.Status = status.String
	r.Origem = origem.String
	r.Destino = destino.String
	r.OrigemCodigo = origemCodigo.String
	r.DestinoCodigo = destinoCodigo.String
	r.OrigemHora = origemHora.String
	r.DestinoHora = destinoHora.String
	r.Motorista = motorista.String
	r.TransferData = transferData.String
	r.TransferHora = transferHora.String
	r.EventoReferenciaID = referenciaID.String
	r.Atraso = atraso.String

	if conexoes.Valid && conexoes.String != "" {
		if err := json.Unmarshal([]byte(conexoes.String), &r.Conexoes); err != nil {
			return models.EventWireRecord{}, fmt.Errorf("decoding conexoes: %w", err)
		}
	}
	if passageiros.Valid && passageiros.String != "" {
		if err := json.Unmarshal([]byte(passageiros.String), &r.Passageiros); err != nil {
			return models.EventWireRecord{}, fmt.Errorf("decoding passageiros: %w", err)
		}
	}
	return r, nil
}

// encodeJSONColumn serializes a slice-valued column, empty string for nil.
func encodeJSONColumn(value any) (string, error) {
	if value == nil {
		return "", nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	if string(encoded) == "null" {
		return "", nil
	}
	return string(encoded), nil
}
