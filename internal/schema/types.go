// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package schema maps IFC entity names to numeric type codes and carries the
// small amount of schema knowledge the scene walker needs.
package schema

import (
	"hash/crc32"
	"strings"
)

// TypeCode returns the numeric code of an IFC entity name: the CRC32 (IEEE)
// of its upper-case spelling.
func TypeCode(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.ToUpper(name)))
}

// Well-known entity codes.
var (
	IfcProject                        = TypeCode("IFCPROJECT")
	IfcRelAggregates                  = TypeCode("IFCRELAGGREGATES")
	IfcRelContainedInSpatialStructure = TypeCode("IFCRELCONTAINEDINSPATIALSTRUCTURE")

	IfcLocalPlacement          = TypeCode("IFCLOCALPLACEMENT")
	IfcAxis2Placement2D        = TypeCode("IFCAXIS2PLACEMENT2D")
	IfcAxis2Placement3D        = TypeCode("IFCAXIS2PLACEMENT3D")
	IfcCartesianPoint          = TypeCode("IFCCARTESIANPOINT")
	IfcDirection               = TypeCode("IFCDIRECTION")
	IfcCartesianTransformOp3D  = TypeCode("IFCCARTESIANTRANSFORMATIONOPERATOR3D")
	IfcCartesianTransformOp3DU = TypeCode("IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM")

	IfcProductDefinitionShape = TypeCode("IFCPRODUCTDEFINITIONSHAPE")
	IfcShapeRepresentation    = TypeCode("IFCSHAPEREPRESENTATION")
	IfcMappedItem             = TypeCode("IFCMAPPEDITEM")
	IfcRepresentationMap      = TypeCode("IFCREPRESENTATIONMAP")

	IfcExtrudedAreaSolid      = TypeCode("IFCEXTRUDEDAREASOLID")
	IfcRectangleProfileDef    = TypeCode("IFCRECTANGLEPROFILEDEF")
	IfcCircleProfileDef       = TypeCode("IFCCIRCLEPROFILEDEF")
	IfcArbitraryClosedProfile = TypeCode("IFCARBITRARYCLOSEDPROFILEDEF")
	IfcArbitraryProfileVoids  = TypeCode("IFCARBITRARYPROFILEDEFWITHVOIDS")
	IfcPolyline               = TypeCode("IFCPOLYLINE")
	IfcIndexedPolyCurve       = TypeCode("IFCINDEXEDPOLYCURVE")
	IfcCartesianPointList2D   = TypeCode("IFCCARTESIANPOINTLIST2D")
	IfcCartesianPointList3D   = TypeCode("IFCCARTESIANPOINTLIST3D")
	IfcTriangulatedFaceSet    = TypeCode("IFCTRIANGULATEDFACESET")
	IfcPolygonalFaceSet       = TypeCode("IFCPOLYGONALFACESET")
	IfcIndexedPolygonalFace   = TypeCode("IFCINDEXEDPOLYGONALFACE")
	IfcFacetedBrep            = TypeCode("IFCFACETEDBREP")
	IfcClosedShell            = TypeCode("IFCCLOSEDSHELL")
	IfcOpenShell              = TypeCode("IFCOPENSHELL")
	IfcFace                   = TypeCode("IFCFACE")
	IfcFaceOuterBound         = TypeCode("IFCFACEOUTERBOUND")
	IfcFaceBound              = TypeCode("IFCFACEBOUND")
	IfcPolyLoop               = TypeCode("IFCPOLYLOOP")
	IfcShellBasedSurfaceModel = TypeCode("IFCSHELLBASEDSURFACEMODEL")
	IfcFaceBasedSurfaceModel  = TypeCode("IFCFACEBASEDSURFACEMODEL")
	IfcConnectedFaceSet       = TypeCode("IFCCONNECTEDFACESET")
	IfcBoundingBox            = TypeCode("IFCBOUNDINGBOX")
	IfcBooleanResult          = TypeCode("IFCBOOLEANRESULT")
	IfcBooleanClippingResult  = TypeCode("IFCBOOLEANCLIPPINGRESULT")

	IfcStyledItem              = TypeCode("IFCSTYLEDITEM")
	IfcPresentationStyleAssign = TypeCode("IFCPRESENTATIONSTYLEASSIGNMENT")
	IfcSurfaceStyle            = TypeCode("IFCSURFACESTYLE")
	IfcSurfaceStyleRendering   = TypeCode("IFCSURFACESTYLERENDERING")
	IfcSurfaceStyleShading     = TypeCode("IFCSURFACESTYLESHADING")
	IfcColourRgb               = TypeCode("IFCCOLOURRGB")
)

// productNames lists IfcProduct and its subtypes across IFC2X3 and IFC4.
var productNames = []string{
	"IFCPRODUCT", "IFCELEMENT", "IFCSPATIALELEMENT", "IFCSPATIALSTRUCTUREELEMENT",
	"IFCSITE", "IFCBUILDING", "IFCBUILDINGSTOREY", "IFCSPACE", "IFCEXTERNALSPATIALELEMENT",
	"IFCSPATIALZONE", "IFCFACILITY", "IFCFACILITYPART", "IFCBRIDGE", "IFCBRIDGEPART",
	"IFCROAD", "IFCROADPART", "IFCRAILWAY", "IFCRAILWAYPART", "IFCMARINEFACILITY",
	"IFCBUILDINGELEMENT", "IFCBUILTELEMENT", "IFCWALL", "IFCWALLSTANDARDCASE",
	"IFCWALLELEMENTEDCASE", "IFCSLAB", "IFCSLABSTANDARDCASE", "IFCSLABELEMENTEDCASE",
	"IFCROOF", "IFCBEAM", "IFCBEAMSTANDARDCASE", "IFCCOLUMN", "IFCCOLUMNSTANDARDCASE",
	"IFCDOOR", "IFCDOORSTANDARDCASE", "IFCWINDOW", "IFCWINDOWSTANDARDCASE",
	"IFCSTAIR", "IFCSTAIRFLIGHT", "IFCRAMP", "IFCRAMPFLIGHT", "IFCRAILING",
	"IFCCOVERING", "IFCCURTAINWALL", "IFCPLATE", "IFCPLATESTANDARDCASE", "IFCMEMBER",
	"IFCMEMBERSTANDARDCASE", "IFCFOOTING", "IFCPILE", "IFCCHIMNEY", "IFCSHADINGDEVICE",
	"IFCBUILDINGELEMENTPROXY", "IFCBUILDINGELEMENTPART", "IFCBUILTELEMENTPROXY",
	"IFCELEMENTASSEMBLY", "IFCFURNISHINGELEMENT", "IFCFURNITURE", "IFCSYSTEMFURNITUREELEMENT",
	"IFCDISTRIBUTIONELEMENT", "IFCDISTRIBUTIONFLOWELEMENT", "IFCDISTRIBUTIONCONTROLELEMENT",
	"IFCFLOWSEGMENT", "IFCFLOWFITTING", "IFCFLOWTERMINAL", "IFCFLOWCONTROLLER",
	"IFCFLOWMOVINGDEVICE", "IFCFLOWSTORAGEDEVICE", "IFCFLOWTREATMENTDEVICE",
	"IFCENERGYCONVERSIONDEVICE", "IFCPIPESEGMENT", "IFCPIPEFITTING", "IFCDUCTSEGMENT",
	"IFCDUCTFITTING", "IFCSANITARYTERMINAL", "IFCLIGHTFIXTURE", "IFCOUTLET",
	"IFCFEATUREELEMENT", "IFCFEATUREELEMENTSUBTRACTION", "IFCFEATUREELEMENTADDITION",
	"IFCOPENINGELEMENT", "IFCOPENINGSTANDARDCASE", "IFCVOIDINGFEATURE", "IFCPROJECTIONELEMENT",
	"IFCELEMENTCOMPONENT", "IFCDISCRETEACCESSORY", "IFCFASTENER", "IFCMECHANICALFASTENER",
	"IFCREINFORCINGELEMENT", "IFCREINFORCINGBAR", "IFCREINFORCINGMESH", "IFCTENDON",
	"IFCGEOGRAPHICELEMENT", "IFCTRANSPORTELEMENT", "IFCVIRTUALELEMENT", "IFCCIVILELEMENT",
	"IFCANNOTATION", "IFCGRID", "IFCPORT", "IFCDISTRIBUTIONPORT", "IFCPROXY",
	"IFCSTRUCTURALITEM", "IFCSTRUCTURALMEMBER", "IFCSTRUCTURALCONNECTION",
	"IFCPOSITIONINGELEMENT", "IFCALIGNMENT", "IFCLINEARPOSITIONINGELEMENT",
}
