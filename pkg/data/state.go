package data

import (
	"database/sql"
	"errors"
	"fmt"
)

var stateQueries = map[string]string{
	"runs":           "SELECT COUNT(*) FROM run",
	"schema_version": "SELECT COALESCE(MAX(version), 0) FROM schema_version",
}

// GetDataState returns row counts of the history database.
func GetDataState(db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64)
	for k, v := range stateQueries {
		count, err := getCount(db, v)
		if err != nil {
			return nil, fmt.Errorf("error getting %s count: %w", k, err)
		}
		state[k] = count
	}

	return state, nil
}

func getCount(db *sql.DB, query string) (int64, error) {
	var count int64
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan row: %w", err)
	}

	return count, nil
}
