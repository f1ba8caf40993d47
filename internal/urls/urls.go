package urls

// Documentation is the root of the project documentation site.
const Documentation = "https://muurk.github.io/smartap/"

// GettingStarted covers putting a device into pairing mode and joining
// its WiFi hotspot, which discovery needs.
const GettingStarted = "https://muurk.github.io/smartap/getting-started/overview/"

// TroubleshootingGuide lists fixes for devices that do not answer.
const TroubleshootingGuide = "https://muurk.github.io/smartap/jailbreak/troubleshooting/"
