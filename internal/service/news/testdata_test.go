package news

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Example</title>
    <link>https://example.com</link>
    <item>
      <title>Bitcoin breaks out</title>
      <link>https://example.com/a</link>
      <description>Price moves higher.</description>
      <dc:creator>Jane Doe</dc:creator>
      <author>desk@example.com</author>
      <pubDate>Tue, 01 Oct 2024 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>No link here</title>
      <description>Dropped.</description>
      <pubDate>Tue, 01 Oct 2024 11:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Undated</title>
      <link>https://example.com/c</link>
      <description>Kept without a date.</description>
      <pubDate>sometime last week</pubDate>
    </item>
    <item>
      <title>Dublin Core date</title>
      <link>https://example.com/d</link>
      <dc:date>2024-10-02T08:30:00Z</dc:date>
    </item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example</title>
  <id>urn:example</id>
  <updated>2024-10-01T10:00:00Z</updated>
  <entry>
    <title>Bitcoin breaks out</title>
    <id>urn:a</id>
    <link rel="self" href="https://example.com/a.atom"/>
    <link rel="alternate" href="https://example.com/a"/>
    <author><name>Jane Doe</name></author>
    <author><name>John Roe</name></author>
    <summary>Price moves higher.</summary>
    <published>2024-09-30T10:00:00Z</published>
    <updated>2024-10-01T10:00:00Z</updated>
  </entry>
  <entry>
    <title>Published only</title>
    <id>urn:b</id>
    <link href="https://example.com/b"/>
    <content type="text">Body text.</content>
    <published>2024-09-29T10:00:00Z</published>
  </entry>
  <entry>
    <title>Linkless</title>
    <id>urn:c</id>
  </entry>
</feed>`

const atomFallbackDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example</title>
  <id>urn:example</id>
  <entry>
    <title>Created only</title>
    <id>urn:d</id>
    <link href="https://example.com/d"/>
    <created>2024-09-28T07:15:00Z</created>
  </entry>
  <entry>
    <title>Text link</title>
    <id>urn:e</id>
    <link>https://example.com/e</link>
    <updated>2024-09-27T07:15:00Z</updated>
  </entry>
  <entry>
    <title>Self link only</title>
    <id>urn:f</id>
    <link rel="self" href="https://example.com/f.atom"/>
  </entry>
</feed>`
