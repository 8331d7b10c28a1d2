//go:build windows

package wallpaper

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"windwall/logger"
)

const (
	spiSetDeskWallpaper  = 0x0014
	spifUpdateIniFile    = 0x01
	spifSendWinIniChange = 0x02

	hwndBroadcast      = 0xffff
	wmSettingChange    = 0x001a
	smtoAbortIfHung    = 0x0002
	broadcastTimeoutMS = 5000

	// SPIF_UPDATEINIFILE|SPIF_SENDWININICHANGE as most callers pass it.
	spifDefault = 3

	settingArea = `Control Panel\Desktop`
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfo = user32.NewProc("SystemParametersInfoW")
	procSendMessageTimeout   = user32.NewProc("SendMessageTimeoutW")
)

// Replaced in tests.
var (
	desktopKey = settingArea
	broadcast  = broadcastSettingChange
)

func setDeskWallpaper(path string, flags uintptr) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if err := procSystemParametersInfo.Find(); err != nil {
		return err
	}
	r, _, callErr := procSystemParametersInfo.Call(
		uintptr(spiSetDeskWallpaper),
		uintptr(0),
		uintptr(unsafe.Pointer(p)),
		flags,
	)
	if r == 0 {
		return fmt.Errorf("%w: SystemParametersInfoW returned 0: %v", ErrAPICallFailed, callErr)
	}
	return nil
}

func nativeAPI(_ context.Context, req Request) error {
	return setDeskWallpaper(req.Path, spifDefault)
}

func nativeAPIWithFlags(_ context.Context, req Request) error {
	return setDeskWallpaper(req.Path, spifUpdateIniFile|spifSendWinIniChange)
}

func registryWrite(_ context.Context, req Request) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open HKCU\\%s: %w", desktopKey, err)
	}
	defer k.Close()

	style, tile := req.Style.RegistryValues()
	values := [][2]string{
		{"WallpaperStyle", style},
		{"TileWallpaper", tile},
		{"Wallpaper", req.Path},
	}
	for _, v := range values {
		if err := k.SetStringValue(v[0], v[1]); err != nil {
			return fmt.Errorf("set %s: %w", v[0], err)
		}
	}

	// Some shells only repaint after a second notification.
	for i := 0; i < 2; i++ {
		if err := broadcast(); err != nil {
			return err
		}
	}
	return nil
}

func broadcastSettingChange() error {
	if err := procSendMessageTimeout.Find(); err != nil {
		return err
	}
	area, err := windows.UTF16PtrFromString(settingArea)
	if err != nil {
		return err
	}
	var result uintptr
	r, _, callErr := procSendMessageTimeout.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		uintptr(spiSetDeskWallpaper),
		uintptr(unsafe.Pointer(area)),
		uintptr(smtoAbortIfHung),
		uintptr(broadcastTimeoutMS),
		uintptr(unsafe.Pointer(&result)),
	)
	if r == 0 {
		// A hung top-level window times out the broadcast; the values are already written.
		logger.Debugf("SendMessageTimeoutW returned 0: %v", callErr)
	}
	return nil
}
