package services

import (
	"context"
	"fmt"
	"time"

	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AreaService struct {
	db *bun.DB
}

func NewAreaService(db *bun.DB) *AreaService {
	return &AreaService{db: db}
}

type areaRow struct {
	ID         uuid.UUID              `bun:"id"`
	Name       *string                `bun:"name"`
	Properties map[string]interface{} `bun:"properties"`
	EWKB       string                 `bun:"ewkb"`
}

// record merges the stored properties with the name, name winning.
func (r areaRow) record() features.Record {
	props := make(map[string]interface{}, len(r.Properties)+1)
	for k, v := range r.Properties {
		props[k] = v
	}
	if r.Name != nil {
		props["name"] = *r.Name
	}
	return features.Record{ID: r.ID.String(), EWKB: r.EWKB, Properties: props}
}

// Create stores an area from its GeoJSON geometry.
func (s *AreaService) Create(ctx context.Context, in models.NewArea) (uuid.UUID, error) {
	area := &models.Area{
		ID:         uuid.New(),
		Name:       in.Name,
		Properties: in.Properties,
		CreatedAt:  time.Now(),
	}
	if area.Properties == nil {
		area.Properties = map[string]interface{}{}
	}

	_, err := s.db.NewInsert().
		Model(area).
		Value("the_geom", "ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)", in.GeoJSON).
		Exec(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert area: %w", err)
	}
	return area.ID, nil
}

// QueryBBox returns areas intersecting the box. Geometry is read as EWKB.
func (s *AreaService) QueryBBox(ctx context.Context, box geometry.BBox) ([]features.Record, error) {
	var rows []areaRow
	err := s.bboxQuery(box).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("query areas: %w", err)
	}

	records := make([]features.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (s *AreaService) bboxQuery(box geometry.BBox) *bun.SelectQuery {
	return s.db.NewSelect().
		Column("id", "name", "properties").
		ColumnExpr("encode(ST_AsEWKB(the_geom), 'hex') AS ewkb").
		TableExpr("app.areas AS ar").
		Where("the_geom IS NOT NULL").
		Where("ST_Intersects(the_geom, ST_MakeEnvelope(?, ?, ?, ?, 4326))", box.MinX, box.MinY, box.MaxX, box.MaxY).
		OrderExpr("created_at ASC")
}
