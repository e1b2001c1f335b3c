package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"installations-bknd/internal/features"
	"installations-bknd/internal/geometry"
	"installations-bknd/internal/models"

	"github.com/uptrace/bun"
)

type InstallationService struct {
	db *bun.DB
}

func NewInstallationService(db *bun.DB) *InstallationService {
	return &InstallationService{db: db}
}

// installationRow is the read shape of app.installations.
type installationRow struct {
	ID       int64   `bun:"id"`
	Code     string  `bun:"code"`
	PowerMax float64 `bun:"power_max"`
	PowerAvg float64 `bun:"power_avg"`
	AreaM2   float64 `bun:"area_m2"`
	Region   *string `bun:"region"`
	GeoJSON  string  `bun:"geojson"`
}

func (r installationRow) record() features.Record {
	var region interface{}
	if r.Region != nil {
		region = *r.Region
	}
	return features.Record{
		ID:      r.ID,
		GeoJSON: r.GeoJSON,
		Properties: map[string]interface{}{
			"code":      r.Code,
			"power_max": r.PowerMax,
			"power_avg": r.PowerAvg,
			"area_m2":   r.AreaM2,
			"region":    region,
		},
	}
}

// Create stores a validated installation and returns its generated id.
// The WKT is checked again before it reaches PostGIS.
func (s *InstallationService) Create(ctx context.Context, in models.NewInstallation) (int64, error) {
	if err := CheckPolygonWKT(in.WKT); err != nil {
		return 0, err
	}

	inst := &models.Installation{
		Code:      in.Code,
		PowerMax:  in.PowerMax,
		PowerAvg:  in.PowerAvg,
		Region:    in.Region,
		AreaM2:    in.AreaM2,
		CreatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(inst).
		Value("the_geom", "ST_GeomFromText(?, 4326)", in.WKT).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert installation: %w", err)
	}
	return inst.ID, nil
}

// QueryBBox returns installations intersecting the box, optionally limited
// to regions.
func (s *InstallationService) QueryBBox(ctx context.Context, box geometry.BBox, regions []string) ([]features.Record, error) {
	q := s.selectQuery(regions).
		Where("ST_Intersects(the_geom, ST_MakeEnvelope(?, ?, ?, ?, 4326))", box.MinX, box.MinY, box.MaxX, box.MaxY)
	return s.scan(ctx, q)
}

// QueryRegion returns every installation in the given regions. An empty
// list or the "all" selector returns everything.
func (s *InstallationService) QueryRegion(ctx context.Context, params models.InstallationQueryParams) ([]features.Record, error) {
	return s.scan(ctx, s.selectQuery(params.Regions))
}

func (s *InstallationService) selectQuery(regions []string) *bun.SelectQuery {
	q := s.db.NewSelect().
		Column("id", "code", "power_max", "power_avg", "area_m2", "region").
		ColumnExpr("ST_AsGeoJSON(the_geom) AS geojson").
		TableExpr("app.installations AS inst").
		Where("the_geom IS NOT NULL")

	if lower := regionFilter(regions); len(lower) > 0 {
		q = q.Where("LOWER(TRIM(region)) IN (?)", bun.In(lower))
	}
	return q.OrderExpr("id ASC")
}

func (s *InstallationService) scan(ctx context.Context, q *bun.SelectQuery) ([]features.Record, error) {
	var rows []installationRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("query installations: %w", err)
	}
	records := make([]features.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

// regionFilter lower-cases and trims region names. Any "all" selector
// disables the filter.
func regionFilter(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if features.IsAllRegions(r) {
			return nil
		}
		out = append(out, strings.ToLower(strings.TrimSpace(r)))
	}
	return out
}
