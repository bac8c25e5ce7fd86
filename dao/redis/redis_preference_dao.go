package redis

import (
	"context"
	"fmt"
	"strconv"

	"cinematix/db"
)

const INSTALL_PROMPT_DECLINED_KEY_V1 = "prefs_v1:install_prompt_declined"

// PreferenceDAO persists small user preferences, currently only whether the
// install prompt was declined.
type PreferenceDAO struct {
	client db.KeyValueClient
}

// NewPreferenceDAO initializes a PreferenceDAO with the key-value client.
func NewPreferenceDAO(client db.KeyValueClient) *PreferenceDAO {
	return &PreferenceDAO{client: client}
}

// SetInstallPromptDeclined records the user's decision.
func (dao *PreferenceDAO) SetInstallPromptDeclined(ctx context.Context, declined bool) error {
	if err := dao.client.Set(ctx, INSTALL_PROMPT_DECLINED_KEY_V1, strconv.FormatBool(declined), 0); err != nil {
		return fmt.Errorf("failed to persist install prompt preference: %w", err)
	}
	return nil
}

// InstallPromptDeclined reports whether the user previously declined the
// install prompt. Missing entries read as false.
func (dao *PreferenceDAO) InstallPromptDeclined(ctx context.Context) (bool, error) {
	value, ok, err := dao.client.Get(ctx, INSTALL_PROMPT_DECLINED_KEY_V1)
	if err != nil {
		return false, fmt.Errorf("failed to read install prompt preference: %w", err)
	}
	if !ok {
		return false, nil
	}
	declined, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return declined, nil
}
