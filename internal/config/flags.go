package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN (SQLite file path)
//	-salt salt file path
//	-kdf-iterations PBKDF2 iteration count
//	-bcrypt-cost bcrypt cost for password hashes
//	-log structured log file path
//	-level-base net worth at which level 1 begins
//	-level-growth multiplier between level floors
//	-audit-interval consistency auditor period (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var saltPath string
	var kdfIterations int
	var bcryptCost int
	var logPath string
	var levelBase float64
	var levelGrowth float64
	var auditInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&saltPath, "salt", "", "Salt file path")
	flag.IntVar(&kdfIterations, "kdf-iterations", 0, "PBKDF2 iteration count")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt cost")
	flag.StringVar(&logPath, "log", "", "Log file path")
	flag.Float64Var(&levelBase, "level-base", 0, "Level ladder base value")
	flag.Float64Var(&levelGrowth, "level-growth", 0, "Level ladder growth factor")
	flag.DurationVar(&auditInterval, "audit-interval", 0, "Audit interval (e.g., 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			SaltPath:      saltPath,
			KDFIterations: kdfIterations,
			BcryptCost:    bcryptCost,
			LogPath:       logPath,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Level: Level{
			Base:   levelBase,
			Growth: levelGrowth,
		},
		Workers: Workers{
			AuditInterval: auditInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
