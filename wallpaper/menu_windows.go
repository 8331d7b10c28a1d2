//go:build windows

package wallpaper

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"windwall/logger"
)

// InstallMenu adds a desktop right-click entry that runs "apply".
func InstallMenu(exe, configPath string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, menuKey, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("create HKCU\\%s: %w", menuKey, err)
	}
	defer k.Close()
	if err := k.SetStringValue("", menuLabel); err != nil {
		return err
	}

	ck, _, err := registry.CreateKey(registry.CURRENT_USER, menuKey+`\command`, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("create HKCU\\%s\\command: %w", menuKey, err)
	}
	defer ck.Close()
	cmd := menuCommand(exe, configPath)
	if err := ck.SetStringValue("", cmd); err != nil {
		return err
	}
	logger.Printf("[info menu] installed %s", cmd)
	return nil
}

// RemoveMenu deletes the entry added by InstallMenu.
func RemoveMenu() error {
	for _, key := range []string{menuKey + `\command`, menuKey} {
		err := registry.DeleteKey(registry.CURRENT_USER, key)
		if err != nil && !errors.Is(err, registry.ErrNotExist) {
			return fmt.Errorf("delete HKCU\\%s: %w", key, err)
		}
	}
	logger.Printf("[info menu] removed")
	return nil
}
