package interfaces

import (
	"github.com/GabeSucich/elmo-fire-bets-backend/database"
	"github.com/GabeSucich/elmo-fire-bets-backend/services"
)

// Interface compliance checks - these will fail to compile if services don't implement interfaces
var (
	_ AuthService   = (*services.AuthService)(nil)
	_ ParlayService = (*services.ParlayService)(nil)
	_ PickService   = (*services.PickService)(nil)
	_ VetoService   = (*services.VetoService)(nil)
	_ SeasonService = (*services.SeasonService)(nil)

	_ HealthChecker = (*database.MongoDB)(nil)

	// Verify the Mongo repositories satisfy the stores services depend on
	_ services.ParlayStore     = (*database.MongoParlayRepository)(nil)
	_ services.SeasonStore     = (*database.MongoSeasonRepository)(nil)
	_ services.UserStore       = (*database.MongoUserRepository)(nil)
	_ services.IDSequence      = (*database.MongoCounterRepository)(nil)
	_ services.PropTargetStore = (*database.MongoPropTargetRepository)(nil)
	_ services.SnapshotStore   = (*database.MongoSnapshotRepository)(nil)

	_ services.PerformanceCache = (*services.RedisPerformanceCache)(nil)
	_ services.PerformanceCache = (*services.MemoryPerformanceCache)(nil)
)
