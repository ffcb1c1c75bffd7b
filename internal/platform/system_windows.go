//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/forestctl/forestctl/internal/messages"
)

// WindowsSystem reads host facts from the process token, the registry, and
// the volume manager.
type WindowsSystem struct{}

// ProductType reads HKLM ProductOptions. "WinNT" is a workstation edition;
// "ServerNT" and "LanmanNT" are server editions (LanmanNT is what a domain
// controller itself reports).
func (WindowsSystem) ProductType() (string, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Control\ProductOptions`, registry.QUERY_VALUE)
	if err != nil {
		return "", false, fmt.Errorf(messages.PlatformProductTypeFmt, err)
	}
	defer k.Close()

	productType, _, err := k.GetStringValue("ProductType")
	if err != nil {
		return "", false, fmt.Errorf(messages.PlatformProductTypeFmt, err)
	}
	return productType, productType == "ServerNT" || productType == "LanmanNT", nil
}

func (WindowsSystem) IsElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}

func (WindowsSystem) FreeBytes(path string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, fmt.Errorf(messages.PlatformFreeSpaceFmt, path, err)
	}
	var freeToCaller, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &freeToCaller, &total, &totalFree); err != nil {
		return 0, fmt.Errorf(messages.PlatformFreeSpaceFmt, path, err)
	}
	return freeToCaller, nil
}
