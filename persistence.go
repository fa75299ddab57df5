package lightwave

import (
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/persistence"
)

func (g *Gateway) sectionForDevice(identifier string) persistence.Section {
	return g.section.Section("device", identifier)
}

func (g *Gateway) sectionRemoveDevice(identifier string) bool {
	return g.section.Section("device").SectionDelete(identifier)
}

func (g *Gateway) deviceListFromPersistence() []string {
	return g.section.Section("device").SectionKeys()
}

func saveDescriptor(s persistence.Section, d feature.Descriptor) {
	ds := s.Section("descriptor")

	ds.Set("Kind", string(d.Kind))
	ds.Set("ExternalID", d.ExternalID)
	ds.Set("Name", d.Name)

	for _, r := range d.SupportedRoles() {
		id, _ := d.FeatureID(r)
		ds.Section("feature").Set(string(r), id)
	}
}

func loadDescriptor(s persistence.Section) (feature.Descriptor, error) {
	ds := s.Section("descriptor")
	fs := ds.Section("feature")

	kind, _ := ds.String("Kind")
	externalID, _ := ds.String("ExternalID")
	name, _ := ds.String("Name")

	featureID := func(r feature.Role) string {
		id, _ := fs.String(string(r))
		return id
	}

	d := feature.Descriptor{
		Kind:            feature.Kind(kind),
		ExternalID:      externalID,
		Name:            name,
		SwitchFeatureID: featureID(feature.Switch),
		DimFeatureID:    featureID(feature.DimLevel),
		PowerFeatureID:  featureID(feature.Power),
		EnergyFeatureID: featureID(feature.Energy),
	}

	return d, d.Validate()
}
