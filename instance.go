package vkx

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// InitializeForCompute initializes the Vulkan loader for a headless compute
// task. Graphics programs instead initialize through their window library,
// which supplies the instance proc address.
func InitializeForCompute() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "loading vulkan")
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "initializing vulkan")
	}
	return nil
}

// Version of a component in major.minor.patch form.
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns the packed Vulkan representation of the version.
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App describes the application to the driver and collects the layers and
// extensions to enable at instance creation. It is plain configuration;
// nothing is created until CreateInstance.
type App struct {
	Name       string
	EngineName string
	Version    Version
	// APIVersion is the minimum Vulkan API version the app requires,
	// defaulting to 1.0.0 so the app works with any loader.
	APIVersion Version

	EnabledLayers     []string
	EnabledExtensions []string
}

// SupportedLayers returns the instance layers the loader knows about.
func SupportedLayers() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating instance layers")
	}
	props := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, props); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating instance layers")
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions returns the instance extensions the loader knows about.
func SupportedExtensions() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceExtensionProperties("", &count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating instance extensions")
	}
	props := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateInstanceExtensionProperties("", &count, props); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating instance extensions")
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// EnableLayer enables an instance layer if the loader supports it.
func (a *App) EnableLayer(layer string) error {
	layers, err := SupportedLayers()
	if err != nil {
		return err
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return nil
		}
	}
	return fmt.Errorf("validation layer '%s' not found", layer)
}

// EnableExtension enables an instance extension unconditionally.
func (a *App) EnableExtension(extension string) *App {
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

// EnableDiagnostics enables the Khronos validation layer and the debug report
// extension so a diagnostics callback can be registered on the instance.
// Failure to find the layer is not fatal; diagnostics are best effort.
func (a *App) EnableDiagnostics() {
	if err := a.EnableLayer("VK_LAYER_KHRONOS_validation"); err != nil {
		log.Printf("diagnostics unavailable: %v", err)
		return
	}
	a.EnableExtension("VK_EXT_debug_report")
}

// VKApplicationInfo builds the driver-facing description of the application.
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance described by the App.
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}
	if res := vk.CreateInstance(&createInfo, nil, &instance.VKInstance); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "creating instance")
	}
	vk.InitInstance(instance.VKInstance)

	return instance, nil
}

// Instance owns the Vulkan instance handle and, when registered, the
// diagnostics callback attached to it.
type Instance struct {
	VKInstance vk.Instance

	diagnostics vk.DebugReportCallback
	hasCallback bool
}

// PhysicalDevices enumerates the physical devices known to the instance, in
// the stable order the driver reports them.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var count uint32
	if res := vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating physical devices")
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices); res != vk.Success {
		return nil, errors.Wrap(vk.Error(res), "enumerating physical devices")
	}

	ret := make([]*PhysicalDevice, count)
	for n, device := range devices {
		ret[n] = &PhysicalDevice{}
		ret[n].VKPhysicalDevice = device
		vk.GetPhysicalDeviceProperties(device, &ret[n].VKPhysicalDeviceProperties)
		ret[n].VKPhysicalDeviceProperties.Deref()
		ret[n].DeviceName = vk.ToString(ret[n].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret, nil
}

// Severity classifies a diagnostics message.
type Severity int

const (
	SeverityInformation Severity = iota
	SeverityWarning
	SeverityPerformance
	SeverityError
	SeverityDebug
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityPerformance:
		return "PERFORMANCE"
	case SeverityError:
		return "ERROR"
	case SeverityDebug:
		return "DEBUG"
	default:
		return "INFORMATION"
	}
}

// DiagnosticsFunc receives driver validation and performance reports. It must
// not be relied upon for control flow; reports are purely informational.
type DiagnosticsFunc func(severity Severity, message string)

// LogDiagnostics is the default diagnostics sink, printing each report
// through the standard logger.
func LogDiagnostics(severity Severity, message string) {
	log.Printf("%s: %s", severity, message)
}

// RegisterDiagnostics installs fn as the instance's debug report callback.
// Requires the debug report extension, see App.EnableDiagnostics.
func (i *Instance) RegisterDiagnostics(fn DiagnosticsFunc) error {
	callback := func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

		severity := SeverityInformation
		switch {
		case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
			severity = SeverityError
		case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
			severity = SeverityPerformance
		case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
			severity = SeverityWarning
		case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
			severity = SeverityDebug
		}
		fn(severity, fmt.Sprintf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage))
		return vk.Bool32(vk.False)
	}

	res := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: callback,
	}, nil, &i.diagnostics)
	if res != vk.Success {
		return errors.Wrap(vk.Error(res), "registering diagnostics callback")
	}
	i.hasCallback = true
	return nil
}

// UnregisterDiagnostics removes a previously registered callback. Must happen
// before the instance is destroyed.
func (i *Instance) UnregisterDiagnostics() {
	if i.hasCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.diagnostics, nil)
		i.hasCallback = false
	}
}

func (i *Instance) Destroy() {
	i.UnregisterDiagnostics()
	vk.DestroyInstance(i.VKInstance, nil)
}
