package models

// EventWireRecord is the persisted representation of an Event. Field names
// follow the backend's column naming and must not change: they are the only
// bit-exact contract between this service and the persistence layer.
type EventWireRecord struct {
	ID      string `json:"id,omitempty"`
	GrupoID string `json:"grupo_id,omitempty"`

	Tipo       string `json:"tipo"`
	Data       string `json:"data"`
	HoraInicio string `json:"hora_inicio"`
	HoraFim    string `json:"hora_fim,omitempty"`
	Duracao    string `json:"duracao,omitempty"`

	Titulo      string `json:"titulo"`
	Subtitulo   string `json:"subtitulo,omitempty"`
	Localizacao string `json:"localizacao,omitempty"`
	Descricao   string `json:"descricao,omitempty"`

	Preco  float64 `json:"preco,omitempty"`
	Status string  `json:"status,omitempty"`

	Origem        string              `json:"origem,omitempty"`
	Destino       string              `json:"destino,omitempty"`
	OrigemCodigo  string              `json:"origem_codigo,omitempty"`
	DestinoCodigo string              `json:"destino_codigo,omitempty"`
	OrigemHora    string              `json:"origem_hora,omitempty"`
	DestinoHora   string              `json:"destino_hora,omitempty"`
	Conexoes      []ConnectionLegWire `json:"conexoes,omitempty"`

	Motorista string `json:"motorista,omitempty"`

	PossuiTransfer bool   `json:"possui_transfer,omitempty"`
	TransferData   string `json:"transfer_data,omitempty"`
	TransferHora   string `json:"transfer_hora,omitempty"`

	EventoReferenciaID string `json:"evento_referencia_id,omitempty"`

	Passageiros []string `json:"passageiros,omitempty"`

	Favorito bool   `json:"favorito,omitempty"`
	Atrasado bool   `json:"atrasado,omitempty"`
	Atraso   string `json:"atraso,omitempty"`
}

// ConnectionLegWire is the persisted shape of one connecting flight leg.
type ConnectionLegWire struct {
	Origem        string `json:"origem"`
	Destino       string `json:"destino"`
	OrigemCodigo  string `json:"origem_codigo,omitempty"`
	DestinoCodigo string `json:"destino_codigo,omitempty"`
	OrigemHora    string `json:"origem_hora,omitempty"`
	DestinoHora   string `json:"destino_hora,omitempty"`
}

// ToEvent maps a wire record into the in-memory Event shape.
func (r EventWireRecord) ToEvent() Event {
	e := Event{
		ID:               r.ID,
		GroupID:          r.GrupoID,
		Type:             EventType(r.Tipo),
		Date:             r.Data,
		Time:             r.HoraInicio,
		EndTime:          r.HoraFim,
		Duration:         r.Duracao,
		Title:            r.Titulo,
		Subtitle:         r.Subtitulo,
		Location:         r.Localizacao,
		Description:      r.Descricao,
		Price:            r.Preco,
		Status:           BookingStatus(r.Status),
		From:             r.Origem,
		To:               r.Destino,
		FromCode:         r.OrigemCodigo,
		ToCode:           r.DestinoCodigo,
		FromTime:         r.OrigemHora,
		ToTime:           r.DestinoHora,
		Driver:           r.Motorista,
		HasTransfer:      r.PossuiTransfer,
		TransferDate:     r.TransferData,
		TransferTime:     r.TransferHora,
		ReferenceEventID: r.EventoReferenciaID,
		Passengers:       r.Passageiros,
		IsFavorite:       r.Favorito,
		IsDelayed:        r.Atrasado,
		Delay:            r.Atraso,
	}
	if len(r.Conexoes) > 0 {
		e.Connections = make([]ConnectionLeg, len(r.Conexoes))
		for i, c := range r.Conexoes {
			e.Connections[i] = ConnectionLeg{
				From:     c.Origem,
				To:       c.Destino,
				FromCode: c.OrigemCodigo,
				ToCode:   c.DestinoCodigo,
				FromTime: c.OrigemHora,
				ToTime:   c.DestinoHora,
			}
		}
	}
	return e
}

// ToWire maps an Event back into its persisted representation. The mapping
// is lossless for every persisted field so an edit round-trip never drops
// data the form did not touch.
func (e Event) ToWire() EventWireRecord {
	r := EventWireRecord{
		ID:                 e.ID,
		GrupoID:            e.GroupID,
		Tipo:               string(e.Type),
		Data:               e.Date,
		HoraInicio:         e.Time,
		HoraFim:            e.EndTime,
		Duracao:            e.Duration,
		Titulo:             e.Title,
		Subtitulo:          e.Subtitle,
		Localizacao:        e.Location,
		Descricao:          e.Description,
		Preco:              e.Price,
		Status:             string(e.Status),
		Origem:             e.From,
		Destino:            e.To,
		OrigemCodigo:       e.FromCode,
		DestinoCodigo:      e.ToCode,
		OrigemHora:         e.FromTime,
		DestinoHora:        e.ToTime,
		Motorista:          e.Driver,
		PossuiTransfer:     e.HasTransfer,
		TransferData:       e.TransferDate,
		TransferHora:       e.TransferTime,
		EventoReferenciaID: e.ReferenceEventID,
		Passageiros:        e.Passengers,
		Favorito:           e.IsFavorite,
		Atrasado:           e.IsDelayed,
		Atraso:             e.Delay,
	}
	if len(e.Connections) > 0 {
		r.Conexoes = make([]ConnectionLegWire, len(e.Connections))
		for i, c := range e.Connections {
			r.Conexoes[i] = ConnectionLegWire{
				Origem:        c.From,
				Destino:       c.To,
				OrigemCodigo:  c.FromCode,
				DestinoCodigo: c.ToCode,
				OrigemHora:    c.FromTime,
				DestinoHora:   c.ToTime,
			}
		}
	}
	return r
}

// AsPatch flattens a wire record into a full-row update payload. Every
// editable column is present, booleans included, so a flag flipped to false
// actually reaches the backend (omitempty would drop it).
func (r EventWireRecord) AsPatch() map[string]any {
	patch := map[string]any{
		"tipo":                 r.Tipo,
		"data":                 r.Data,
		"hora_inicio":          r.HoraInicio,
		"hora_fim":             r.HoraFim,
		"duracao":              r.Duracao,
		"titulo":               r.Titulo,
		"subtitulo":            r.Subtitulo,
		"localizacao":          r.Localizacao,
		"descricao":            r.Descricao,
		"preco":                r.Preco,
		"status":               r.Status,
		"origem":               r.Origem,
		"destino":              r.Destino,
		"origem_codigo":        r.OrigemCodigo,
		"destino_codigo":       r.DestinoCodigo,
		"origem_hora":          r.OrigemHora,
		"destino_hora":         r.DestinoHora,
		"motorista":            r.Motorista,
		"possui_transfer":      r.PossuiTransfer,
		"transfer_data":        r.TransferData,
		"transfer_hora":        r.TransferHora,
		"evento_referencia_id": r.EventoReferenciaID,
		"passageiros":          r.Passageiros,
		"favorito":             r.Favorito,
		"atrasado":             r.Atrasado,
		"atraso":               r.Atraso,
	}
	if len(r.Conexoes) > 0 {
		patch["conexoes"] = r.Conexoes
	}
	return patch
}

// ToEvents maps a slice of wire records.
func ToEvents(records []EventWireRecord) []Event {
	events := make([]Event, len(records))
	for i, r := range records {
		events[i] = r.ToEvent()
	}
	return events
}
