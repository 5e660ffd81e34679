package docx

// Static and templated parts for the generated word-processing package.
// Geometry inside drawings is EMU; page sizes in section properties are
// twentieths of a point, per the WordprocessingML schema.

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const contentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Default Extension="jpg" ContentType="image/jpeg"/>` +
	`<Default Extension="jpeg" ContentType="image/jpeg"/>` +
	`<Default Extension="tiff" ContentType="image/tiff"/>` +
	`<Default Extension="bmp" ContentType="image/bmp"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const rootRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsTmpl = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">%s</Relationships>`

const imageRelTmpl = `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.%s"/>`

const documentTmpl = xmlHeader + `<w:document` +
	` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"` +
	` xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
	`<w:body>%s</w:body></w:document>`

// sectPrTmpl describes one page-sized section with the narrow margins the
// anchored content ignores anyway. Args: width twips, height twips.
const sectPrTmpl = `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>` +
	`<w:pgMar w:top="360" w:right="360" w:bottom="360" w:left="360" w:header="0" w:footer="0" w:gutter="0"/>` +
	`</w:sectPr>`

// backgroundTmpl anchors the page image behind the document text at the
// page origin. Args: docPr id, EMU width, EMU height (extent), docPr id,
// relationship id, EMU width, EMU height (picture transform).
const backgroundTmpl = `<w:p><w:r><w:drawing>` +
	`<wp:anchor distT="0" distB="0" distL="0" distR="0" simplePos="0" relativeHeight="0" behindDoc="1" locked="0" layoutInCell="1" allowOverlap="1">` +
	`<wp:simplePos x="0" y="0"/>` +
	`<wp:positionH relativeFrom="page"><wp:posOffset>0</wp:posOffset></wp:positionH>` +
	`<wp:positionV relativeFrom="page"><wp:posOffset>0</wp:posOffset></wp:positionV>` +
	`<wp:extent cx="%d" cy="%d"/>` +
	`<wp:effectExtent l="0" t="0" r="0" b="0"/>` +
	`<wp:wrapNone/>` +
	`<wp:docPr id="%d" name="Background"/>` +
	`<wp:cNvGraphicFramePr/>` +
	`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic>` +
	`<pic:nvPicPr><pic:cNvPr id="%d" name="Background"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic>` +
	`</a:graphicData></a:graphic></wp:anchor></w:drawing></w:r></w:p>`

// textboxTmpl anchors one region's text box to the page. Args: EMU left,
// EMU top, EMU width, EMU height (extent), docPr id, EMU width, EMU
// height (shape transform), line element, paragraphs, inset EMU x4,
// autofit element.
const textboxTmpl = `<w:p><w:r><w:drawing>` +
	`<wp:anchor distT="0" distB="0" distL="0" distR="0" simplePos="0" relativeHeight="251658240" behindDoc="0" locked="0" layoutInCell="1" allowOverlap="1">` +
	`<wp:simplePos x="0" y="0"/>` +
	`<wp:positionH relativeFrom="page"><wp:posOffset>%d</wp:posOffset></wp:positionH>` +
	`<wp:positionV relativeFrom="page"><wp:posOffset>%d</wp:posOffset></wp:positionV>` +
	`<wp:extent cx="%d" cy="%d"/>` +
	`<wp:effectExtent l="0" t="0" r="0" b="0"/>` +
	`<wp:wrapNone/>` +
	`<wp:docPr id="%d" name="TextBox"/>` +
	`<wp:cNvGraphicFramePr/>` +
	`<a:graphic><a:graphicData uri="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
	`<wps:wsp>` +
	`<wps:cNvSpPr txBox="1"/>` +
	`<wps:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/>%s</wps:spPr>` +
	`<wps:txbx><w:txbxContent>%s</w:txbxContent></wps:txbx>` +
	`<wps:bodyPr lIns="%d" tIns="%d" rIns="%d" bIns="%d" wrap="square" anchor="t">%s</wps:bodyPr>` +
	`</wps:wsp>` +
	`</a:graphicData></a:graphic></wp:anchor></w:drawing></w:r></w:p>`

// noLine removes the text-box border; debugLine draws the thin red
// alignment outline instead.
const noLine = `<a:ln><a:noFill/></a:ln>`
const debugLine = `<a:ln w="6350"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:ln>`

// paragraphTmpl is one text line inside a text box. Args: paragraph
// properties, run properties, escaped text.
const paragraphTmpl = `<w:p><w:pPr>%s</w:pPr><w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`
