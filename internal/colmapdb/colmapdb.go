// Package colmapdb reads run statistics out of the reconstruction engine's
// SQLite feature database. The database is produced and owned by the engine;
// this package only ever opens it read-only, between pipeline stages, to
// report progress.
package colmapdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Stats summarizes the engine database after extraction and matching.
type Stats struct {
	NumCameras   int64
	NumImages    int64
	NumKeypoints int64
	NumMatches   int64
}

const (
	countCamerasSQL = `SELECT COUNT(*) FROM cameras`
	countImagesSQL  = `SELECT COUNT(*) FROM images`

	// keypoints and matches store one blob row per image pair with the
	// element count in the rows column.
	sumKeypointsSQL = `SELECT COALESCE(SUM(rows), 0) FROM keypoints`
	sumMatchesSQL   = `SELECT COALESCE(SUM(rows), 0) FROM matches`
)

// ReadStats opens the engine database at path read-only and returns its
// counters.
func ReadStats(ctx context.Context, path string) (s *Stats, err error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("opening engine database: %w", err)
	}
	defer closeWithError(db, &err)

	s = &Stats{}
	queries := []struct {
		sql  string
		dest *int64
	}{
		{countCamerasSQL, &s.NumCameras},
		{countImagesSQL, &s.NumImages},
		{sumKeypointsSQL, &s.NumKeypoints},
		{sumMatchesSQL, &s.NumMatches},
	}
	for _, q := range queries {
		if err = db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("querying engine database: %w", err)
		}
	}

	return s, nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
