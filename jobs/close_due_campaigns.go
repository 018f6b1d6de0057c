package jobs

import (
	"context"

	"github.com/hookwise/hookwise-backend/usecases"
	"github.com/hookwise/hookwise-backend/utils"
)

// CloseDueCampaigns closes every active campaign whose close date has passed:
// decoys come down, unengaged interactions are swept to their terminal status.
func CloseDueCampaigns(ctx context.Context, uc usecases.Usecases) error {
	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "start of closing due campaigns")

	err := uc.NewCampaignUsecase().CloseDueCampaigns(ctx)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "done closing due campaigns")
	return nil
}
